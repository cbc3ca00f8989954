// Package service provides application-level services for managing tasks,
// users, and their reminder side effects.
package service

import (
	"errors"
	"strings"

	"github.com/jmilford/taskward/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrInvalidDateRange indicates a task was given a start date after its due date.
	ErrInvalidDateRange = errors.New("start date must not be after due date")
)

// ConflictError reports which unique user fields are already taken.
// It unwraps to store.ErrDuplicate so errors.Is checks keep working.
type ConflictError struct {
	// Fields holds the conflicting field names ("username", "email", "phone").
	Fields []string
}

// Error implements the error interface for ConflictError.
func (e *ConflictError) Error() string {
	return "already in use: " + strings.Join(e.Fields, ", ")
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ConflictError) Unwrap() error {
	return store.ErrDuplicate
}
