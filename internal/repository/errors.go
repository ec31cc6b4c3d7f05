package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStoreUnavailable is returned when the document store cannot be reached.
	ErrStoreUnavailable = errors.New("order store unavailable")
)
