package session

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

// Manager issues, verifies, and revokes sessions. A session is valid only
// while the signed token checks out AND the mirror still holds that exact
// token for its subject. The mirror TTL equals the token expiry, so the
// two never disagree about lifetime.
type Manager struct {
	codec  *TokenCodec
	store  interfaces.SessionStore
	logger *common.Logger
}

func NewManager(codec *TokenCodec, store interfaces.SessionStore, logger *common.Logger) *Manager {
	return &Manager{
		codec:  codec,
		store:  store,
		logger: logger,
	}
}

// IssueSession signs a fresh token for the subject and mirrors it. The
// write replaces any prior session for the same subject, so logging in
// again invalidates the earlier token.
func (m *Manager) IssueSession(ctx context.Context, subject string) (string, error) {
	now := time.Now().UTC()

	token, expiresAt, err := m.codec.Sign(subject, now)
	if err != nil {
		return "", common.Failf(common.ErrUpstream, "sign session token: %v", err)
	}

	entry := &models.SessionEntry{
		Subject:   subject,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := m.store.SetWithTTL(ctx, entry, m.codec.Expiry()); err != nil {
		return "", common.Failf(common.ErrUpstream, "mirror session: %v", err)
	}

	m.logger.Debug().Str("subject", subject).Time("expires_at", expiresAt).Msg("session issued")
	return token, nil
}

// VerifySession validates a bearer token and returns its subject. The
// checks run in a fixed order: token structure, signature, and expiry
// first, with no store access on failure; then the mirror lookup; then
// byte equality with the mirrored token. Every rejection surfaces as the
// same unauthenticated error so callers cannot tell which check failed.
func (m *Manager) VerifySession(ctx context.Context, token string) (string, error) {
	subject, err := m.codec.Open(token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("session token rejected")
		return "", common.Failf(common.ErrUnauthenticated, "invalid session")
	}

	entry, err := m.store.Get(ctx, subject)
	if err != nil {
		return "", common.Failf(common.ErrUpstream, "session lookup: %v", err)
	}
	if entry == nil {
		m.logger.Debug().Str("subject", subject).Msg("no mirrored session")
		return "", common.Failf(common.ErrUnauthenticated, "invalid session")
	}

	if subtle.ConstantTimeCompare([]byte(entry.Token), []byte(token)) != 1 {
		m.logger.Debug().Str("subject", subject).Msg("token superseded by a newer login")
		return "", common.Failf(common.ErrUnauthenticated, "invalid session")
	}

	return subject, nil
}

// RevokeSession drops the mirrored session, immediately invalidating any
// outstanding token for the subject.
func (m *Manager) RevokeSession(ctx context.Context, subject string) error {
	if err := m.store.Delete(ctx, subject); err != nil {
		return common.Failf(common.ErrUpstream, "revoke session: %v", err)
	}
	m.logger.Debug().Str("subject", subject).Msg("session revoked")
	return nil
}

// Compile-time check
var _ interfaces.SessionManager = (*Manager)(nil)
