package utils

import "errors"

// Errors raised by the HTTP surface itself. Domain errors live next to the
// code that returns them.
var (
	ErrUnauthorized    = errors.New("UNAUTHORIZED")
	ErrInvalidRequest  = errors.New("INVALID_REQUEST")
	ErrTooManyRequests = errors.New("TOO_MANY_REQUESTS")
	ErrInvalidPage     = errors.New("INVALID_PAGE")
)
