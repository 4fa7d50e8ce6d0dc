package table

import "errors"

// ErrNotFound is returned when an operation names a record that is not held locally.
var ErrNotFound = errors.New("book not found in table")

// ErrNotConfirmed is returned when the user declines a delete confirmation.
var ErrNotConfirmed = errors.New("delete not confirmed")

// ErrInvalidSort is returned for unknown sort keys or directions.
var ErrInvalidSort = errors.New("invalid sort")
