package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested course does not exist in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCorpus indicates index construction was attempted with zero
	// documents. Fatal at startup: the service must not run without an index.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrIndexNotBuilt indicates a recommendation was requested before the
	// similarity index was constructed.
	ErrIndexNotBuilt = errors.New("similarity index not built")
)
