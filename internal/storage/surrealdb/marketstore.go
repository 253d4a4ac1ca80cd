package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

// MarketStore persists quotes, predictions, and transactions. All three
// tables are append-only; records are never updated in place.
type MarketStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMarketStore(db *surrealdb.DB, logger *common.Logger) *MarketStore {
	return &MarketStore{
		db:     db,
		logger: logger,
	}
}

func (s *MarketStore) InsertQuote(ctx context.Context, quote *models.QuoteRecord) error {
	sql := "CREATE quote CONTENT $record"
	vars := map[string]any{"record": quote}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.QuoteRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to insert quote after retries: %w", lastErr)
}

// FindLatestQuote returns the newest stored quote for the symbol, or
// (nil, nil) when none exists.
func (s *MarketStore) FindLatestQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	sql := "SELECT * FROM quote WHERE symbol = $symbol ORDER BY timestamp DESC LIMIT 1"
	vars := map[string]any{"symbol": symbol}

	results, err := surrealdb.Query[[]models.QuoteRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *MarketStore) InsertPrediction(ctx context.Context, prediction *models.PredictionRecord) error {
	sql := "CREATE prediction CONTENT $record"
	vars := map[string]any{"record": prediction}

	if _, err := surrealdb.Query[[]models.PredictionRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

func (s *MarketStore) InsertTransaction(ctx context.Context, txn *models.TransactionRecord) error {
	sql := "CREATE transaction CONTENT $record"
	vars := map[string]any{"record": txn}

	if _, err := surrealdb.Query[[]models.TransactionRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.MarketStore = (*MarketStore)(nil)
