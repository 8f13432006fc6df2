// Package kit provides the Kit catalog. A kit groups assets that move
// together (a camera body with its lenses and cases) and can carry its own
// barcodes for scanning the whole group at once.
package kit

import (
	"context"
	"strings"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/entity"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Label identifies the kit domain in errors and logs.
const Label = "Kit"

// Status tracks kit availability.
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

// Kit is a named group of assets within an organization.
type Kit struct {
	entity.Scoped

	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	Status Status `db:"status" json:"status"`
}

// New creates a Kit with required fields.
func New(name string, organizationID id.ID) *Kit {
	return &Kit{
		Scoped: entity.NewScoped(organizationID),
		Name:   name,
		Status: StatusAvailable,
	}
}

// Validate implements entity.Validatable.
func (k *Kit) Validate(ctx context.Context) error {
	if strings.TrimSpace(k.Name) == "" {
		return apperror.NewValidation("Name is required").
			WithLabel(Label).
			WithDetail("field", "name")
	}
	if !k.Status.Valid() {
		return apperror.NewValidation("invalid kit status").
			WithLabel(Label).
			WithDetail("field", "status").
			WithDetail("value", string(k.Status))
	}
	return nil
}
