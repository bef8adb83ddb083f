package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both missing records and records owned by another
	// user, so handlers cannot leak the existence of other users' rows.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is deliberately vague: callers must not learn
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
)

// ValidationError carries per-field messages for a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
