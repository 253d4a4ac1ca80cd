package server

import (
	"net/http"

	"github.com/bobmcallan/stockcast/internal/models"
)

// handleStockDetails handles GET /api/stocks/{symbol}/details.
func (s *Server) handleStockDetails(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quote, err := s.app.Quotes.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Info().Err(err).Str("symbol", symbol).Msg("Quote lookup failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handlePredict handles GET /api/predict/{symbol}.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/predict/", "")
	if symbol == "" || r.URL.Path != "/api/predict/"+symbol {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	prediction, err := s.app.Quotes.Predict(r.Context(), symbol)
	if err != nil {
		s.logger.Info().Err(err).Str("symbol", symbol).Msg("Prediction failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, prediction)
}

// handleTransactionStore handles POST /api/transactions/store. The body is
// an arbitrary JSON object; it is stored as-is under an assigned id.
func (s *Server) handleTransactionStore(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var txn models.TransactionRecord
	if !DecodeJSON(w, r, &txn) {
		return
	}

	if err := s.app.Quotes.StoreTransaction(r.Context(), &txn); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store transaction")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction_id": txn.TransactionID,
	})
}
