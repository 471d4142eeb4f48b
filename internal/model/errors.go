package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrAlreadyRegistered is returned when a user registers for the same event twice.
	ErrAlreadyRegistered = errors.New("user already registered for this event")

	// ErrPermissionDenied is returned when an ownership or admin check fails.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAuthFailure is returned for bad credentials. It never says which part was wrong.
	ErrAuthFailure = errors.New("invalid username or password")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a user-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Reason string
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
