// Package quote implements the market-facing operations: the read-through
// quote cache, the prediction generator, and the transaction ledger.
package quote

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

// Service implements interfaces.QuoteService.
type Service struct {
	provider interfaces.QuoteProvider
	store    interfaces.MarketStore
	logger   *common.Logger
}

func NewService(provider interfaces.QuoteProvider, store interfaces.MarketStore, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetQuote returns the stored quote for the symbol, fetching from the
// provider and persisting on a miss. Stored records never expire: once a
// symbol has been fetched, every later read is served from storage.
// Concurrent misses may each fetch and insert; that is harmless because
// records are append-only and reads take the newest one.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, common.Failf(common.ErrInvalidRequest, "symbol is required")
	}

	cached, err := s.store.FindLatestQuote(ctx, symbol)
	if err != nil {
		return nil, common.Failf(common.ErrUpstream, "quote lookup: %v", err)
	}
	if cached != nil {
		s.logger.Debug().Str("symbol", symbol).Msg("quote served from storage")
		return cached, nil
	}

	fetched, err := s.provider.IntradayQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.store.InsertQuote(ctx, fetched); err != nil {
		return nil, common.Failf(common.ErrUpstream, "persist quote: %v", err)
	}

	s.logger.Info().Str("symbol", symbol).Float64("price", fetched.Price).Msg("quote fetched and stored")
	return fetched, nil
}

// Predict generates a signal for the symbol: a uniform draw in [-1, 1],
// with "buy" for strictly positive draws and "sell" otherwise. The symbol
// must resolve to a quote first, so an unknown symbol fails the same way
// a quote read does. Every call produces and persists a fresh record.
func (s *Service) Predict(ctx context.Context, symbol string) (*models.PredictionRecord, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, common.Failf(common.ErrInvalidRequest, "symbol is required")
	}

	if _, err := s.GetQuote(ctx, symbol); err != nil {
		return nil, err
	}

	draw := rand.Float64()*2 - 1
	action := models.ActionSell
	if draw > 0 {
		action = models.ActionBuy
	}

	record := &models.PredictionRecord{
		PredictionID: uuid.NewString(),
		Symbol:       symbol,
		Prediction:   draw,
		Action:       action,
		Timestamp:    time.Now().UTC().Format(models.QuoteTimestampLayout),
	}

	if err := s.store.InsertPrediction(ctx, record); err != nil {
		return nil, common.Failf(common.ErrUpstream, "persist prediction: %v", err)
	}

	s.logger.Debug().Str("symbol", symbol).Str("action", action).Float64("prediction", draw).Msg("prediction generated")
	return record, nil
}

// StoreTransaction assigns an id and appends the record. Client-supplied
// ids are ignored; the assigned id is written back into the record. The
// operation must be "buy" or "sell".
func (s *Service) StoreTransaction(ctx context.Context, txn *models.TransactionRecord) error {
	if txn == nil {
		return common.Failf(common.ErrInvalidRequest, "transaction is required")
	}
	if txn.Operation != models.ActionBuy && txn.Operation != models.ActionSell {
		return common.Failf(common.ErrInvalidRequest, "operation must be %q or %q", models.ActionBuy, models.ActionSell)
	}

	txn.TransactionID = uuid.NewString()

	if err := s.store.InsertTransaction(ctx, txn); err != nil {
		return common.Failf(common.ErrUpstream, "persist transaction: %v", err)
	}

	s.logger.Debug().Str("transaction_id", txn.TransactionID).Str("operation", txn.Operation).Msg("transaction stored")
	return nil
}

// Compile-time check
var _ interfaces.QuoteService = (*Service)(nil)
