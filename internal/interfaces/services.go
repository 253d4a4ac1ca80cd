package interfaces

import (
	"context"

	"github.com/bobmcallan/stockcast/internal/models"
)

// SessionManager owns the session token lifecycle: issue, verify, revoke.
type SessionManager interface {
	// IssueSession signs a token for the subject and mirrors it in the
	// session store. The returned string is the bearer token.
	IssueSession(ctx context.Context, subject string) (string, error)

	// VerifySession validates the token and returns its subject.
	// Returns common.ErrUnauthenticated for any invalid token.
	VerifySession(ctx context.Context, token string) (string, error)

	// RevokeSession drops the mirrored session for the subject.
	RevokeSession(ctx context.Context, subject string) error
}

// QuoteService exposes the market-facing operations.
type QuoteService interface {
	// GetQuote returns the stored quote for the symbol, fetching from
	// the provider and persisting on a cache miss.
	GetQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error)

	// Predict generates a fresh signal for the symbol and persists it.
	Predict(ctx context.Context, symbol string) (*models.PredictionRecord, error)

	// StoreTransaction assigns an id and appends the record. The
	// assigned id is written back into txn.TransactionID.
	StoreTransaction(ctx context.Context, txn *models.TransactionRecord) error
}
