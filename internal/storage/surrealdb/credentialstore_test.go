package surrealdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/models"
)

func TestCredentialStoreCreateAndGet(t *testing.T) {
	db := testDB(t)
	store := NewCredentialStore(db, testLogger())
	ctx := context.Background()

	user := &models.UserRecord{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC(),
	}

	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("expected name Alice, got %q", got.Name)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("password hash not preserved")
	}
}

func TestCredentialStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	store := NewCredentialStore(db, testLogger())
	ctx := context.Background()

	user := &models.UserRecord{
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "hash-one",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}

	dup := &models.UserRecord{
		Email:        "bob@example.com",
		Name:         "Impostor",
		PasswordHash: "hash-two",
		CreatedAt:    time.Now().UTC(),
	}
	err := store.CreateUser(ctx, dup)
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The original record must be untouched.
	got, err := store.GetUserByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.Name != "Bob" || got.PasswordHash != "hash-one" {
		t.Errorf("duplicate registration modified the existing record: %+v", got)
	}
}

func TestCredentialStoreGetMissing(t *testing.T) {
	db := testDB(t)
	store := NewCredentialStore(db, testLogger())

	_, err := store.GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCredentialStoreUpdateName(t *testing.T) {
	db := testDB(t)
	store := NewCredentialStore(db, testLogger())
	ctx := context.Background()

	user := &models.UserRecord{
		Email:        "carol@example.com",
		Name:         "Carol",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := store.UpdateUserName(ctx, "carol@example.com", "Caroline"); err != nil {
		t.Fatalf("UpdateUserName failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "carol@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.Name != "Caroline" {
		t.Errorf("expected name Caroline, got %q", got.Name)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("UpdateUserName must not touch the password hash")
	}
}
