package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested work item doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable wraps persistence failures. Callers keep their last
	// good snapshot when they see it.
	ErrDataUnavailable = errors.New("data unavailable")
)

// ValidationError reports malformed input rejected at a boundary
// (filter values, dates, enum strings, import documents).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
