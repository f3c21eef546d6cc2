package storage

import "errors"

// Storage errors shared by every KV backend.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a namespace or key is empty,
	// or a value is nil.
	ErrInvalidInput = errors.New("invalid input")
)
