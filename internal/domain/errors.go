package domain

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced verbatim to the presentation layer. None of them
// is retried anywhere in the core.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError is a single field-level validation violation with a
// machine-readable code and a human message.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field violations for a rejected
// draft. A service returning it guarantees nothing was persisted.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError wraps a non-empty field-error list. Returns nil for an
// empty list so callers can return it directly.
func NewValidationError(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
