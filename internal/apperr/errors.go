// Package apperr defines the sentinel errors shared across Raido layers.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a hike, observation, or media row
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConstraint is returned when a mutation would break a foreign-key
	// or uniqueness rule, e.g. an observation referencing a nonexistent
	// hike. This indicates a caller bug, not a user error.
	ErrConstraint = errors.New("constraint violation")

	// ErrStoreClosed is returned for any operation attempted after the
	// store has been torn down.
	ErrStoreClosed = errors.New("store closed")

	// ErrStorageUnavailable wraps storage-layer failures (disk, I/O).
	// The store never retries; retry policy belongs to the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
