// Package interfaces defines service contracts for stockcast
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stockcast/internal/models"
)

// StorageManager coordinates the document storage backends.
type StorageManager interface {
	CredentialStore() CredentialStore
	MarketStore() MarketStore

	// Lifecycle
	Close() error
}

// CredentialStore persists user accounts keyed by email.
type CredentialStore interface {
	// CreateUser inserts a new account. Returns common.ErrAlreadyExists
	// when the email is taken; the existing record is left untouched.
	CreateUser(ctx context.Context, user *models.UserRecord) error

	// GetUserByEmail returns common.ErrNotFound when no account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error)

	// UpdateUserName changes the display name only.
	UpdateUserName(ctx context.Context, email, name string) error
}

// MarketStore persists quotes, predictions, and transactions. All three
// tables are append-only.
type MarketStore interface {
	InsertQuote(ctx context.Context, quote *models.QuoteRecord) error

	// FindLatestQuote returns the record with the maximum timestamp for
	// the symbol, or (nil, nil) when none exists.
	FindLatestQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error)

	InsertPrediction(ctx context.Context, prediction *models.PredictionRecord) error

	InsertTransaction(ctx context.Context, txn *models.TransactionRecord) error
}

// SessionStore is the TTL key-value mirror holding the currently valid
// session per subject. Overwrite-on-write is its only concurrency control.
type SessionStore interface {
	// Get returns (nil, nil) when no session is mirrored for the subject.
	Get(ctx context.Context, subject string) (*models.SessionEntry, error)

	// SetWithTTL writes the entry, replacing any prior session for the
	// same subject, and arms the store-side expiry.
	SetWithTTL(ctx context.Context, entry *models.SessionEntry, ttl time.Duration) error

	// Delete removes the mirrored session, revoking it on demand.
	Delete(ctx context.Context, subject string) error

	Close() error
}
