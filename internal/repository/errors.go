// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios, e.g. a unique-key violation when creating a user versus
// a plain query failure.
package repository

import "errors"

// ErrDuplicate is returned when an insert violates a unique key
// (email or name already registered). Handlers should translate this
// into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate entry")

// ErrNotFound is returned when a record that the caller referenced by
// id does not exist. Handlers should translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("record not found")
