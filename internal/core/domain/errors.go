package domain

import (
	"errors"
	"fmt"
)

// Error families. Concrete errors wrap one of these so callers can match a
// whole class with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("duplicate")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrUserExists         = fmt.Errorf("user already exists: %w", ErrDuplicate)
	ErrDuplicateEmail     = fmt.Errorf("client email already registered: %w", ErrDuplicate)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("project %w", ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	// ErrStatusConflict reports that a project's status changed between read
	// and write.
	ErrStatusConflict = errors.New("project status changed concurrently")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required returns a ValidationError for a missing field.
func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// Unavailable marks err as a backing-store connectivity failure.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
