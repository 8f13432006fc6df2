// Package apperror provides structured error handling for the platform.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict = "CONFLICT"

	// Unique constraint violation on a persisted value.
	// Kept distinct from CodeConflict so callers can decide whether to
	// enrich the error with per-field validation detail.
	CodeUniqueViolation = "UNIQUE_CONSTRAINT_VIOLATION"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Label names the subsystem an error originated from (e.g. "Barcode")
	Label string `json:"label,omitempty"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (ids, values involved, etc.)
	Details map[string]any `json:"details,omitempty"`

	// ValidationErrors maps a field path (e.g. "barcodes[0].value") to a
	// message. UI callers distribute these next to the offending inputs.
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// ShouldBeCaptured marks errors eligible for upstream alerting.
	// Expected user-input outcomes (validation, uniqueness) are not captured.
	ShouldBeCaptured bool `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// WithLabel sets the originating subsystem label.
func (e *AppError) WithLabel(label string) *AppError {
	e.Label = label
	return e
}

// WithValidationErrors attaches a field-path indexed error map.
// The map is also mirrored into Details so generic error renderers see it.
func (e *AppError) WithValidationErrors(verrs map[string]string) *AppError {
	e.ValidationErrors = verrs
	return e.WithDetail("validationErrors", verrs)
}

// HasValidationErrors reports whether the error carries a per-field map.
func (e *AppError) HasValidationErrors() bool {
	return len(e.ValidationErrors) > 0
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400).
// Validation failures are normal user-input outcomes, not system faults.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewUniqueViolation creates a uniqueness conflict error (400).
// The store's unique constraint is the source of truth for correctness;
// this error is how a constraint rejection reaches callers in a typed form.
func NewUniqueViolation(label, message string) *AppError {
	return &AppError{
		Code:       CodeUniqueViolation,
		Label:      label,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:             CodeInternal,
		Message:          "Internal server error",
		HTTPStatus:       http.StatusInternalServerError,
		ShouldBeCaptured: true,
		Err:              err,
	}
}

// NewDatabase wraps an unexpected persistence failure with operation context.
func NewDatabase(message string, err error) *AppError {
	return &AppError{
		Code:             CodeDatabase,
		Message:          message,
		HTTPStatus:       http.StatusInternalServerError,
		ShouldBeCaptured: true,
		Err:              err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeValidation
	}
	return false
}

// IsUniqueViolation checks if error is CodeUniqueViolation
func IsUniqueViolation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeUniqueViolation
	}
	return false
}

// HasValidationErrors reports whether err carries a field-indexed error map.
func HasValidationErrors(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HasValidationErrors()
	}
	return false
}

// ShouldBeCaptured reports whether err should be sent to upstream alerting.
// Non-AppError failures default to captured.
func ShouldBeCaptured(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ShouldBeCaptured
	}
	return true
}
