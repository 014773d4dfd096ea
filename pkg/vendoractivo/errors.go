package vendoractivo

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed matches every RequestError via errors.Is.
	ErrRequestFailed = errors.New("REQUEST_FAILED")
	ErrInvalidPage   = errors.New("INVALID_PAGE")
	ErrInvalidRole   = errors.New("INVALID_ROLE")
)

// RequestError describes a failed call to the vendor API: a transport
// error, a non-success status or an undecodable body.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }
