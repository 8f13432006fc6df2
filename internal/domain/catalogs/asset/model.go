// Package asset provides the Asset catalog. Assets are the physical items
// an organization tracks: equipment, tools, devices. Each asset carries a
// human-readable sequential identifier (e.g. "SAM-0042") alongside its
// primary key, and owns zero or more barcodes.
package asset

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/entity"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Label identifies the asset domain in errors and logs.
const Label = "Asset"

// Status tracks asset availability.
type Status string

const (
	StatusAvailable  Status = "AVAILABLE"
	StatusInCustody  Status = "IN_CUSTODY"
	StatusCheckedOut Status = "CHECKED_OUT"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInCustody, StatusCheckedOut:
		return true
	}
	return false
}

// Asset is a tracked item within an organization.
type Asset struct {
	entity.Scoped

	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description,omitempty"`

	// SequentialID is the display identifier, assigned on create.
	SequentialID string `db:"sequential_id" json:"sequentialId"`

	Status Status `db:"status" json:"status"`

	// Valuation is the declared monetary value, if known.
	Valuation *decimal.Decimal `db:"valuation" json:"valuation,omitempty"`
}

// New creates an Asset with required fields. The sequential id is
// assigned by the service on create.
func New(title string, organizationID id.ID) *Asset {
	return &Asset{
		Scoped: entity.NewScoped(organizationID),
		Title:  title,
		Status: StatusAvailable,
	}
}

// Validate implements entity.Validatable.
func (a *Asset) Validate(ctx context.Context) error {
	if strings.TrimSpace(a.Title) == "" {
		return apperror.NewValidation("Title is required").
			WithLabel(Label).
			WithDetail("field", "title")
	}
	if !a.Status.Valid() {
		return apperror.NewValidation("invalid asset status").
			WithLabel(Label).
			WithDetail("field", "status").
			WithDetail("value", string(a.Status))
	}
	if a.Valuation != nil && a.Valuation.IsNegative() {
		return apperror.NewValidation("Valuation cannot be negative").
			WithLabel(Label).
			WithDetail("field", "valuation")
	}
	return nil
}
