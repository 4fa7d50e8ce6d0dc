package bookapi

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every transport failure and every non-2xx response.
var ErrRequestFailed = errors.New("book store request failed")

// ErrIDMismatch is returned by Update when the payload id differs from the path id.
var ErrIDMismatch = errors.New("book id does not match the requested id")

// RequestError describes a failed call to the book store.
// StatusCode is zero for transport failures.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: book store returned HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
