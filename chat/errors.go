package chat

import "errors"

var (
	// ErrValidation covers malformed send requests: no content at all,
	// or a sender addressing themselves.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an operation references a message
	// that does not exist.
	ErrNotFound = errors.New("message not found")
)
