package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrTokenNotFound  = fmt.Errorf("%w: placeholder token", ErrNotFound)

	// Validation errors
	ErrInvalidMapping  = errors.New("invalid field mapping")
	ErrInvalidTemplate = errors.New("invalid template")
	ErrEmptyTemplate   = errors.New("template contains no visible text")
)

// Error constructors with context
func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, name)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
