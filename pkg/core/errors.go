package core

import "errors"

// Common errors.
var (
	// ErrInvalidID means an identifier was empty after validation stripped
	// its disallowed characters.
	ErrInvalidID = errors.New("identifier is empty after validation")
	// ErrNoStore means the service was constructed without a store.
	ErrNoStore = errors.New("service has no store")
)
