package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWithValidationErrors(t *testing.T) {
	verrs := map[string]string{
		"barcodes[0].value": "This barcode value is duplicated in the form",
		"barcodes[1].value": "This barcode value is duplicated in the form",
	}

	err := NewUniqueViolation("Barcode", "Some barcode values are already in use. Please use unique values.").
		WithValidationErrors(verrs)

	if !err.HasValidationErrors() {
		t.Fatal("expected validation errors to be present")
	}
	if got := err.ValidationErrors["barcodes[0].value"]; got != verrs["barcodes[0].value"] {
		t.Errorf("unexpected message: %s", got)
	}
	// Map must also be visible through generic details for error renderers.
	if _, ok := err.Details["validationErrors"]; !ok {
		t.Error("validationErrors not mirrored into Details")
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", err.HTTPStatus)
	}
}

func TestShouldBeCaptured(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation is not captured", NewValidation("bad value"), false},
		{"uniqueness is not captured", NewUniqueViolation("Barcode", "in use"), false},
		{"internal is captured", NewInternal(errors.New("boom")), true},
		{"database is captured", NewDatabase("insert failed", errors.New("conn reset")), true},
		{"plain error defaults to captured", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldBeCaptured(tt.err); got != tt.want {
				t.Errorf("ShouldBeCaptured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrapThroughWrapping(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	appErr := NewUniqueViolation("Barcode", "Barcode value already in use").WithCause(cause)
	wrapped := fmt.Errorf("create barcode: %w", appErr)

	if !IsUniqueViolation(wrapped) {
		t.Error("IsUniqueViolation should see through fmt.Errorf wrapping")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if GetHTTPStatus(wrapped) != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", GetHTTPStatus(wrapped))
	}
}
