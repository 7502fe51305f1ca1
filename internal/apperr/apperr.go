// Package apperr defines the error kinds shared by services and the HTTP layer.
// Services wrap failures with one of the sentinel kinds so handlers can pick a
// status code with errors.Is instead of inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage unavailable")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration error")
)

// Storage wraps a document-store failure for operation op.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Validation returns an ErrValidation carrying a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound reports that what is logically absent.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Message strips the kind prefix from a validation error so the remaining text
// can be shown to clients.
func Message(err error) string {
	var prefix = ErrValidation.Error() + ": "
	s := err.Error()
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
