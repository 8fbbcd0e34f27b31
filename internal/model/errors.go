package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by validators, services and handlers. Every failure an
// operation can surface wraps exactly one of these sentinels so callers can
// branch with errors.Is.
var (
	// ErrNotFound: a lookup by email or id matched no row
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: a field value violates its rule (length, characters, enum)
	ErrInvalidInput = errors.New("invalid input")
	// ErrTypeMismatch: a reference or field value has the wrong kind
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrConstraint: uniqueness or a required reference violated at the store layer
	ErrConstraint = errors.New("constraint violation")
)

// UnknownFieldError reports a partial update naming a field that does not exist
// on the target model.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field '%s'", e.Model, e.Field)
}

// Unwrap classifies unknown fields as invalid input.
func (e *UnknownFieldError) Unwrap() error {
	return ErrInvalidInput
}
