package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrRunNotFound      = fmt.Errorf("%w: run", ErrNotFound)
	ErrColumnNotFound   = fmt.Errorf("%w: column", ErrNotFound)
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNoVariance       = errors.New("no variance in ranks")
	ErrTooFewGroups     = errors.New("fewer than two groups")
	ErrHashMismatch     = errors.New("hash mismatch")
)

// NewNotFoundError builds a not-found error for a resource id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewValidationError builds a field validation error
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSkippable reports errors that turn a statistical test into a skipped result
func IsSkippable(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoVariance) ||
		errors.Is(err, ErrTooFewGroups)
}
