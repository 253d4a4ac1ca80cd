package models

import "time"

// SessionEntry is the mirrored session for a subject: one entry per email,
// last login wins. The mirror's own TTL evicts it at token expiry, so
// absence at lookup time means the session is gone.
type SessionEntry struct {
	Subject   string    `json:"subject"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
