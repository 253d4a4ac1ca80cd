package models

// QuoteTimestampLayout is the layout of provider sample keys. Lexicographic
// order on this layout is chronological, which gives quote records a total
// order per symbol without parsing.
const QuoteTimestampLayout = "2006-01-02 15:04:05"

// DefaultCurrency is stamped on every fetched quote; the intraday provider
// reports USD prices only.
const DefaultCurrency = "USD"

// QuoteRecord is an immutable price observation for a symbol. Records are
// append-only; the current quote for a symbol is the record with the
// maximum Timestamp.
type QuoteRecord struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp string  `json:"timestamp"`
}

// Prediction actions.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// PredictionRecord is a generated buy/sell signal for a symbol.
// Prediction is a uniform draw in [-1, 1]; Action is "buy" for strictly
// positive draws and "sell" otherwise.
type PredictionRecord struct {
	PredictionID string  `json:"prediction_id"`
	Symbol       string  `json:"symbol"`
	Prediction   float64 `json:"prediction"`
	Action       string  `json:"action"`
	Timestamp    string  `json:"timestamp"`
}
