package surrealdb

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/interfaces"
	"github.com/bobmcallan/stockcast/internal/models"
)

// CredentialStore persists user accounts in the "user" table, one record
// per email.
type CredentialStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCredentialStore(db *surrealdb.DB, logger *common.Logger) *CredentialStore {
	return &CredentialStore{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts a new account. The record id is the email, so a
// duplicate registration fails at the storage layer rather than racing a
// separate existence check.
func (s *CredentialStore) CreateUser(ctx context.Context, user *models.UserRecord) error {
	sql := "CREATE $rid CONTENT $user"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("user", user.Email),
		"user": user,
	}

	if _, err := surrealdb.Query[[]models.UserRecord](ctx, s.db, sql, vars); err != nil {
		if isAlreadyExistsError(err) {
			return common.Failf(common.ErrAlreadyExists, "user %s", user.Email)
		}
		return common.Failf(common.ErrUpstream, "create user: %v", err)
	}
	return nil
}

func (s *CredentialStore) GetUserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	record, err := surrealdb.Select[models.UserRecord](ctx, s.db, surrealmodels.NewRecordID("user", email))
	if err != nil {
		if isNotFoundError(err) {
			return nil, common.Failf(common.ErrNotFound, "user %s", email)
		}
		return nil, common.Failf(common.ErrUpstream, "select user: %v", err)
	}
	if record == nil || record.Email == "" {
		return nil, common.Failf(common.ErrNotFound, "user %s", email)
	}
	return record, nil
}

func (s *CredentialStore) UpdateUserName(ctx context.Context, email, name string) error {
	sql := "UPDATE $rid SET name = $name, modified_at = $now"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("user", email),
		"name": name,
		"now":  time.Now().UTC(),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.UserRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return common.Failf(common.ErrUpstream, "update user name after retries: %v", lastErr)
}

// Compile-time check
var _ interfaces.CredentialStore = (*CredentialStore)(nil)
