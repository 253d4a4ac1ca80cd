package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bobmcallan/stockcast/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.Handle("/metrics", s.metrics.Handler())

	// Users
	mux.HandleFunc("/api/users/register", s.handleUserRegister)
	mux.HandleFunc("/api/users/login", s.handleUserLogin)
	mux.HandleFunc("/api/users/profile/update", s.handleProfileUpdate)
	mux.HandleFunc("/api/users/profile", s.handleProfile)
	mux.HandleFunc("/api/users/buy", s.handleUserBuy)
	mux.HandleFunc("/api/users/sell", s.handleUserSell)

	// Auth
	mux.HandleFunc("/api/auth/logout", s.handleAuthLogout)

	// Market
	mux.HandleFunc("/api/stocks/", s.routeStocks)
	mux.HandleFunc("/api/predict/", s.handlePredict)
	mux.HandleFunc("/api/transactions/store", s.handleTransactionStore)
}

// routeStocks dispatches /api/stocks/{symbol}/* to the appropriate handler.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/stocks/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	parts := strings.SplitN(path, "/", 2)
	symbol := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "details":
		s.handleStockDetails(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": common.GetVersion(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
		"go_version": runtime.Version(),
	})
}
