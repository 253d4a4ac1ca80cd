// Package session implements the session token lifecycle: signed bearer
// tokens mirrored in a TTL store, verified signature-first.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Callers collapse all of these into a single
// unauthenticated response; the distinction exists for logs and tests.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// TokenCodec signs and opens HS256 bearer tokens.
type TokenCodec struct {
	secret []byte
	expiry time.Duration
}

func NewTokenCodec(secret string, expiry time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Expiry is the validity window stamped into each token.
func (c *TokenCodec) Expiry() time.Duration {
	return c.expiry
}

// Sign issues a token for the subject, valid from now until now+expiry.
func (c *TokenCodec) Sign(subject string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(c.expiry)

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Open validates the token's structure, signature, and expiry, and returns
// its subject. It touches no external state, so a structurally bad token
// is rejected before any store lookup happens.
func (c *TokenCodec) Open(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", ErrTokenMalformed
	}
	return subject, nil
}
