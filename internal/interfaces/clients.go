package interfaces

import (
	"context"

	"github.com/bobmcallan/stockcast/internal/models"
)

// QuoteProvider fetches market data from an upstream vendor.
type QuoteProvider interface {
	// IntradayQuote returns the most recent intraday sample for the
	// symbol. Failures are wrapped in common.ErrUpstream.
	IntradayQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error)
}
