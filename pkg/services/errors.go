// Package services provides the catalog and validation service layer shared
// by the CLI and the HTTP API.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrDocumentNil       = errors.New("document cannot be nil")
	ErrDocumentIDMissing = errors.New("document id is required")
	ErrUnknownCategory   = errors.New("unknown category")

	// ErrDocumentInvalid marks a validation run that produced errors.
	ErrDocumentInvalid = errors.New("document failed validation")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrDocumentNil) ||
		errors.Is(err, ErrDocumentIDMissing) ||
		errors.Is(err, ErrUnknownCategory)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
