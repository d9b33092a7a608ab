package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// ErrNoCandidate is returned when no vocabulary word fits a masked token.
	ErrNoCandidate = errors.New("no candidate")
)
