// Package app wires configuration, storage, clients, and services together.
package app

import (
	"fmt"

	"github.com/bobmcallan/stockcast/internal/clients/alphavantage"
	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/services/quote"
	"github.com/bobmcallan/stockcast/internal/services/session"
	"github.com/bobmcallan/stockcast/internal/storage/redisstore"
	"github.com/bobmcallan/stockcast/internal/storage/surrealdb"
)

// App holds the assembled application. Fields are interface-typed so
// handler tests can construct an App from fakes.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Storage      interfaces.StorageManager
	SessionStore interfaces.SessionStore
	Sessions     interfaces.SessionManager
	Quotes       interfaces.QuoteService
}

// New loads configuration and connects every backend.
func New(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	sessionStore, err := redisstore.NewSessionStore(logger, config)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	codec := session.NewTokenCodec(config.Auth.JWTSecret, config.Auth.GetTokenExpiry())
	sessions := session.NewManager(codec, sessionStore, logger)

	av := config.Clients.AlphaVantage
	provider := alphavantage.NewClient(av.APIKey,
		alphavantage.WithBaseURL(av.BaseURL),
		alphavantage.WithInterval(av.Interval),
		alphavantage.WithRateLimit(av.RateLimit),
		alphavantage.WithTimeout(av.GetTimeout()),
		alphavantage.WithLogger(logger),
	)

	quotes := quote.NewService(provider, storage.MarketStore(), logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetFullVersion()).
		Msg("Application initialized")

	return &App{
		Config:       config,
		Logger:       logger,
		Storage:      storage,
		SessionStore: sessionStore,
		Sessions:     sessions,
		Quotes:       quotes,
	}, nil
}

// Close releases every backend connection.
func (a *App) Close() error {
	var firstErr error
	if a.SessionStore != nil {
		if err := a.SessionStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
