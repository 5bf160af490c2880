package models

import "errors"

// ErrNotFound is returned when a referenced document does not exist, or when
// the caller is not allowed to see it. Ownership failures are collapsed into
// this error so the API never reveals whether a resource exists.
var ErrNotFound = errors.New("resource not found")

// ValidationError reports malformed or constraint-violating input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
