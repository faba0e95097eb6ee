package errors

import (
	"errors"
	"fmt"
)

// InvalidInputError is returned for user input that is rejected before any
// work happens: blank or numeric titles, unparseable years, unknown menu
// options.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewInvalidInputError creates an InvalidInputError
func NewInvalidInputError(field, value, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// IsInvalidInputError reports whether err is an InvalidInputError (even when wrapped).
func IsInvalidInputError(err error) bool {
	var inputErr *InvalidInputError
	return errors.As(err, &inputErr)
}
