package session

import (
	"errors"
	"testing"
	"time"
)

func TestTokenSignAndOpen(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	now := time.Now()
	token, expiresAt, err := codec.Sign("alice@example.com", now)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if want := now.Add(time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, expiresAt)
	}

	subject, err := codec.Open(token)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("expected subject alice@example.com, got %q", subject)
	}
}

func TestTokenOpenMalformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := codec.Open(token)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Open(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenOpenWrongSecret(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	other := NewTokenCodec("other-secret", time.Hour)

	token, _, err := other.Sign("alice@example.com", time.Now())
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = codec.Open(token)
	if !errors.Is(err, ErrTokenSignature) {
		t.Errorf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenOpenExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	// Signed two hours in the past, so the one-hour window has lapsed.
	token, _, err := codec.Sign("alice@example.com", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = codec.Open(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenOpenMissingSubject(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, _, err := codec.Sign("", time.Now())
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = codec.Open(token)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed for empty subject, got %v", err)
	}
}
