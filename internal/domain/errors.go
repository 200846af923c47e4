package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
)

// ValidationError reports a missing or malformed required field.
// errors.Is(err, ErrInvalidInput) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid returns a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StoreError wraps a failure of the persistence layer. It is surfaced to the
// caller unchanged and never retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StoreFailure passes domain errors (not found, duplicate email, ...) through
// and wraps anything else in a StoreError tagged with op.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrDuplicateEmail, ErrInvalidInput, ErrUnauthorized, ErrForbidden} {
		if errors.Is(err, known) {
			return err
		}
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
