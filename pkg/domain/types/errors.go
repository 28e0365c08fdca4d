package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned both for missing records and for records the
	// actor may not access. Callers cannot tell the two apart.
	ErrNotFound = goerr.New("not found")

	ErrValidationFailed = goerr.New("validation failed")
	ErrInvalidOption    = goerr.New("invalid option")
	ErrUnauthorized     = goerr.New("unauthorized")

	// ErrInvalidTransition is also an ErrValidationFailed.
	ErrInvalidTransition = goerr.Wrap(ErrValidationFailed, "invalid status transition")
)
