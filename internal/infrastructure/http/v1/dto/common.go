// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code             string            `json:"code"`
	Label            string            `json:"label,omitempty"`
	Message          string            `json:"message"`
	Details          map[string]any    `json:"details,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}
