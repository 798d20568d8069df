package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("required field missing")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidID    = errors.New("invalid id")
)

// ValidationError reports a request field that failed a presence or format check.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingField):
		return fmt.Sprintf("%s is required", e.Field)
	case e.Field == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Required returns the validation error for a missing field.
func Required(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingField}
}

// Invalid returns a validation error for a field with a malformed value.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
