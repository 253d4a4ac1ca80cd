// Package common provides shared utilities for stockcast
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stockcast
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Sessions    SessionsConfig `toml:"sessions"`
	Clients     ClientsConfig  `toml:"clients"`
	Auth        AuthConfig     `toml:"auth"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// SessionsConfig holds the Redis session mirror configuration.
type SessionsConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	Database int    `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Interval  string `toml:"interval"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds JWT signing configuration. TokenExpiry drives both the
// token's embedded expiry and the session mirror TTL, so the two cannot
// drift apart.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "1h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "stockcast",
			Database:  "stockcast",
		},
		Sessions: SessionsConfig{
			Address: "localhost:6379",
		},
		Clients: ClientsConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL:   "https://www.alphavantage.co/query",
				Interval:  "5min",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "1h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKCAST_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKCAST_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKCAST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKCAST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("STOCKCAST_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if addr := os.Getenv("STOCKCAST_SESSIONS_ADDRESS"); addr != "" {
		config.Sessions.Address = addr
	}

	// Auth overrides
	if v := os.Getenv("STOCKCAST_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("STOCKCAST_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		config.Clients.AlphaVantage.APIKey = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
