// Package common provides shared utilities for stockcast
package common

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared across services and handlers. Callers match
// them with errors.Is; store and provider failures are translated to one of
// these at the component boundary so no raw transport error escapes.
var (
	// ErrInvalidRequest marks requests missing required fields.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated covers missing, malformed, expired, and revoked
	// tokens alike. The sub-reason is never surfaced to the caller.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound marks a lookup miss for an entity that may exist later.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUpstream marks an unreachable or erroring backing service
	// (quote provider, credential store, session mirror).
	ErrUpstream = errors.New("upstream unavailable")
)

// Failf wraps a sentinel kind with a formatted message. The kind stays
// matchable with errors.Is; any underlying cause belongs in the message.
func Failf(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
