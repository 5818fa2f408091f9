package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the wiki has no page under the requested title.
// This is a common outcome (typos, renamed pages) and callers are expected to
// handle it separately from transport failures.
var ErrNotFound = errors.New("page not found")

// TransportError represents any non-success fetch outcome other than a
// missing page: unexpected HTTP status codes or network-level failures.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 for network errors.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error (status %d)", e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}
