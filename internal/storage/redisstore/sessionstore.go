// Package redisstore implements the session mirror on Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

const keyPrefix = "session:"

// SessionStore keeps one JSON-encoded SessionEntry per subject with a
// Redis-side TTL. Writing overwrites any prior entry, so a second login
// for the same subject invalidates the first token.
type SessionStore struct {
	client *redis.Client
	logger *common.Logger
}

// NewSessionStore connects to Redis and verifies the connection.
func NewSessionStore(logger *common.Logger, config *common.Config) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Sessions.Address,
		Password: config.Sessions.Password,
		DB:       config.Sessions.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info().Str("address", config.Sessions.Address).Msg("Redis session store initialized")

	return &SessionStore{
		client: client,
		logger: logger,
	}, nil
}

func sessionKey(subject string) string {
	return keyPrefix + subject
}

func (s *SessionStore) SetWithTTL(ctx context.Context, entry *models.SessionEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(entry.Subject), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns (nil, nil) when no session is mirrored for the subject,
// whether it never existed or the TTL already evicted it.
func (s *SessionStore) Get(ctx context.Context, subject string) (*models.SessionEntry, error) {
	data, err := s.client.Get(ctx, sessionKey(subject)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var entry models.SessionEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
	}
	return &entry, nil
}

func (s *SessionStore) Delete(ctx context.Context, subject string) error {
	if err := s.client.Del(ctx, sessionKey(subject)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}

// Compile-time check
var _ interfaces.SessionStore = (*SessionStore)(nil)
