package entities

import "errors"

// Domain errors
var (
	// Call store errors
	ErrCallNotFound      = errors.New("call not found")
	ErrCallAlreadyExists = errors.New("call already exists")
	ErrInvalidTransition = errors.New("invalid call status transition")

	// Normalization errors
	ErrNilPayload      = errors.New("analysis payload is nil")
	ErrNotCompleted    = errors.New("analysis payload is not completed")
	ErrMissingCallID   = errors.New("call id is required")
	ErrInvalidSortMode = errors.New("invalid sort order")
)
