package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/models"
)

// fakeProvider serves canned quotes and counts fetches.
type fakeProvider struct {
	quotes map[string]*models.QuoteRecord
	calls  int
	err    error
}

func (f *fakeProvider) IntradayQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, common.Failf(common.ErrUpstream, "no intraday series for %s", symbol)
	}
	copy := *q
	return &copy, nil
}

// fakeMarketStore is an in-memory MarketStore.
type fakeMarketStore struct {
	quotes       []*models.QuoteRecord
	predictions  []*models.PredictionRecord
	transactions []*models.TransactionRecord
	insertErr    error
}

func (f *fakeMarketStore) InsertQuote(ctx context.Context, quote *models.QuoteRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.quotes = append(f.quotes, quote)
	return nil
}

func (f *fakeMarketStore) FindLatestQuote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	var best *models.QuoteRecord
	for _, q := range f.quotes {
		if q.Symbol != symbol {
			continue
		}
		if best == nil || q.Timestamp > best.Timestamp {
			best = q
		}
	}
	return best, nil
}

func (f *fakeMarketStore) InsertPrediction(ctx context.Context, p *models.PredictionRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.predictions = append(f.predictions, p)
	return nil
}

func (f *fakeMarketStore) InsertTransaction(ctx context.Context, txn *models.TransactionRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.transactions = append(f.transactions, txn)
	return nil
}

func newTestService(provider *fakeProvider, store *fakeMarketStore) *Service {
	return NewService(provider, store, common.NewSilentLogger())
}

func TestGetQuoteFetchesOnMiss(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]*models.QuoteRecord{
		"AAPL": {Symbol: "AAPL", Price: 150.25, Currency: "USD", Timestamp: "2026-08-28 19:55:00"},
	}}
	store := &fakeMarketStore{}
	svc := newTestService(provider, store)

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Price != 150.25 {
		t.Errorf("expected price 150.25, got %v", quote.Price)
	}
	if provider.calls != 1 {
		t.Errorf("expected one provider fetch, got %d", provider.calls)
	}
	if len(store.quotes) != 1 {
		t.Errorf("expected the fetched quote to be persisted, got %d records", len(store.quotes))
	}
}

func TestGetQuoteServedFromStorage(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]*models.QuoteRecord{
		"AAPL": {Symbol: "AAPL", Price: 150.25, Currency: "USD", Timestamp: "2026-08-28 19:55:00"},
	}}
	store := &fakeMarketStore{}
	svc := newTestService(provider, store)
	ctx := context.Background()

	first, err := svc.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("first GetQuote failed: %v", err)
	}

	// Change what the provider would return; the stored record must win.
	provider.quotes["AAPL"].Price = 999.99

	second, err := svc.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("second GetQuote failed: %v", err)
	}
	if second.Price != first.Price {
		t.Errorf("stored quote must be served on later reads, got %v", second.Price)
	}
	if provider.calls != 1 {
		t.Errorf("expected no second fetch, got %d calls", provider.calls)
	}
}

func TestGetQuoteNormalizesSymbol(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]*models.QuoteRecord{
		"AAPL": {Symbol: "AAPL", Price: 150.25, Currency: "USD", Timestamp: "2026-08-28 19:55:00"},
	}}
	store := &fakeMarketStore{}
	svc := newTestService(provider, store)

	quote, err := svc.GetQuote(context.Background(), "  aapl ")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("expected normalized symbol AAPL, got %q", quote.Symbol)
	}
}

func TestGetQuoteEmptySymbol(t *testing.T) {
	svc := newTestService(&fakeProvider{}, &fakeMarketStore{})

	_, err := svc.GetQuote(context.Background(), "   ")
	if !errors.Is(err, common.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGetQuoteUpstreamFailureNotPersisted(t *testing.T) {
	provider := &fakeProvider{err: common.Failf(common.ErrUpstream, "quota exhausted")}
	store := &fakeMarketStore{}
	svc := newTestService(provider, store)

	_, err := svc.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, common.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if len(store.quotes) != 0 {
		t.Errorf("a failed fetch must not persist anything, got %d records", len(store.quotes))
	}
}

func TestPredictDistribution(t *testing.T) {
	store := &fakeMarketStore{
		quotes: []*models.QuoteRecord{
			{Symbol: "AAPL", Price: 150.25, Currency: "USD", Timestamp: "2026-08-28 19:55:00"},
		},
	}
	svc := newTestService(&fakeProvider{}, store)
	ctx := context.Background()

	const n = 10000
	buys := 0
	for i := 0; i < n; i++ {
		p, err := svc.Predict(ctx, "AAPL")
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		if p.Prediction < -1 || p.Prediction > 1 {
			t.Fatalf("prediction %v outside [-1, 1]", p.Prediction)
		}
		wantAction := models.ActionSell
		if p.Prediction > 0 {
			wantAction = models.ActionBuy
		}
		if p.Action != wantAction {
			t.Fatalf("prediction %v mapped to %q", p.Prediction, p.Action)
		}
		if p.Action == models.ActionBuy {
			buys++
		}
	}

	// A uniform draw should land near a 50/50 split; 45-55% leaves
	// comfortable slack for n=10000.
	if buys < n*45/100 || buys > n*55/100 {
		t.Errorf("buy ratio %d/%d is not plausibly uniform", buys, n)
	}
	if len(store.predictions) != n {
		t.Errorf("every prediction must be persisted, got %d", len(store.predictions))
	}
}

func TestPredictAssignsDistinctIDs(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]*models.QuoteRecord{
		"AAPL": {Symbol: "AAPL", Price: 150.25, Currency: "USD", Timestamp: "2026-08-28 19:55:00"},
	}}
	svc := newTestService(provider, &fakeMarketStore{})
	ctx := context.Background()

	a, err := svc.Predict(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	b, err := svc.Predict(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if a.PredictionID == "" || a.PredictionID == b.PredictionID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.PredictionID, b.PredictionID)
	}
}

func TestPredictUnknownSymbol(t *testing.T) {
	store := &fakeMarketStore{}
	svc := newTestService(&fakeProvider{}, store)

	_, err := svc.Predict(context.Background(), "NOPE")
	if !errors.Is(err, common.ErrUpstream) {
		t.Fatalf("expected ErrUpstream when no quote resolves, got %v", err)
	}
	if len(store.predictions) != 0 {
		t.Errorf("a failed prediction must not be persisted")
	}
}

func TestStoreTransaction(t *testing.T) {
	store := &fakeMarketStore{}
	svc := newTestService(&fakeProvider{}, store)

	txn := &models.TransactionRecord{
		Operation: models.ActionBuy,
		Fields: map[string]any{
			"symbol":   "AAPL",
			"quantity": float64(10),
			"note":     "first buy",
		},
	}
	if err := svc.StoreTransaction(context.Background(), txn); err != nil {
		t.Fatalf("StoreTransaction failed: %v", err)
	}
	if txn.TransactionID == "" {
		t.Error("expected an assigned transaction id")
	}
	if len(store.transactions) != 1 {
		t.Fatalf("expected one stored transaction, got %d", len(store.transactions))
	}
	if got := store.transactions[0].Fields["note"]; got != "first buy" {
		t.Errorf("arbitrary fields must be stored verbatim, got %v", got)
	}
}

func TestStoreTransactionIgnoresClientID(t *testing.T) {
	store := &fakeMarketStore{}
	svc := newTestService(&fakeProvider{}, store)

	txn := &models.TransactionRecord{
		TransactionID: "client-chosen",
		Operation:     models.ActionSell,
		Fields:        map[string]any{"symbol": "MSFT"},
	}
	if err := svc.StoreTransaction(context.Background(), txn); err != nil {
		t.Fatalf("StoreTransaction failed: %v", err)
	}
	if txn.TransactionID == "client-chosen" {
		t.Error("client-supplied ids must be replaced")
	}
}

func TestStoreTransactionRejectsBadOperation(t *testing.T) {
	store := &fakeMarketStore{}
	svc := newTestService(&fakeProvider{}, store)

	for _, operation := range []string{"", "hold", "BUY"} {
		txn := &models.TransactionRecord{
			Operation: operation,
			Fields:    map[string]any{"symbol": "AAPL"},
		}
		err := svc.StoreTransaction(context.Background(), txn)
		if !errors.Is(err, common.ErrInvalidRequest) {
			t.Errorf("operation %q: expected ErrInvalidRequest, got %v", operation, err)
		}
	}
	if len(store.transactions) != 0 {
		t.Errorf("rejected transactions must not be persisted")
	}
}
