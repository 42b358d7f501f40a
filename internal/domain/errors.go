package domain

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks backing-store connection or query failures.
// Callers surface it as a server error; zero results is never an error.
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreError wraps a store failure so it can be classified with errors.Is.
func StoreError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// InvalidFilterError reports an unrecognized or malformed filter input,
// naming the offending field.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
}

// InvalidPaginationError reports unusable limit/offset values.
type InvalidPaginationError struct {
	Reason string
}

func (e *InvalidPaginationError) Error() string {
	return "invalid pagination: " + e.Reason
}
