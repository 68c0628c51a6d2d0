package service

import "errors"

// Error kinds surfaced by the services. Storage failures are not translated:
// they are wrapped with %w and propagated unchanged, so callers can always
// classify an error as exactly one of these kinds or a storage error.
var (
	// ErrInvalidInput marks malformed or out-of-range values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a record that does not resolve within the caller's
	// authorized scope. "Exists but not yours" on reads also surfaces as
	// not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks a denied scope or a failed ownership check on a
	// mutation.
	ErrForbidden = errors.New("forbidden")
)
