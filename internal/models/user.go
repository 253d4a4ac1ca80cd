package models

import "time"

// UserRecord represents a registered account. Email is the unique key;
// uniqueness is enforced by the credential store on insert.
type UserRecord struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at,omitempty"`
}
