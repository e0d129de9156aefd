package apperr

import "errors"

var (
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState signals an operation attempted in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrFailedPrecondition signals a missing prerequisite record or insufficient data.
	ErrFailedPrecondition = errors.New("failed precondition")
)
