package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://www.alphavantage.co/query", cfg.Clients.AlphaVantage.BaseURL)
	assert.Equal(t, "5min", cfg.Clients.AlphaVantage.Interval)
	assert.Equal(t, time.Hour, cfg.Auth.GetTokenExpiry())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stockcast.toml")
	content := `
environment = "production"

[server]
port = 9090

[auth]
jwt_secret = "file-secret"
token_expiry = "30m"

[clients.alphavantage]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.GetTokenExpiry())
	assert.Equal(t, "file-key", cfg.Clients.AlphaVantage.APIKey)
	// Unset values keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/stockcast.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STOCKCAST_PORT", "7070")
	t.Setenv("STOCKCAST_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("STOCKCAST_AUTH_TOKEN_EXPIRY", "2h")
	t.Setenv("ALPHAVANTAGE_API_KEY", "env-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.GetTokenExpiry())
	assert.Equal(t, "env-key", cfg.Clients.AlphaVantage.APIKey)
}

func TestTokenExpiryFallback(t *testing.T) {
	cfg := AuthConfig{TokenExpiry: "not-a-duration"}
	assert.Equal(t, time.Hour, cfg.GetTokenExpiry())
}

func TestAlphaVantageTimeoutFallback(t *testing.T) {
	cfg := AlphaVantageConfig{Timeout: ""}
	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
}
