// Package apperr holds the error taxonomy shared by repositories, services
// and handlers. Handlers translate these into HTTP statuses in one place.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrMethodNotAllowed     = errors.New("method not allowed")
	ErrNotFound             = errors.New("not found")
	ErrConfirmationMismatch = errors.New("invalid confirmation code")

	// ErrDuplicate is returned by repositories when the database rejects a
	// write on a uniqueness constraint. Services turn it into a
	// ValidationError naming the offending field where they can.
	ErrDuplicate = errors.New("duplicate record")
)

// ValidationError is a 400-class failure carrying the offending fields.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validation builds a single-field ValidationError.
func Validation(field, msg string) *ValidationError {
	e := &ValidationError{Fields: map[string][]string{}}
	e.Add(field, msg)
	return e
}

func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}
