// Package organization provides the Organization catalog. An organization
// is the tenancy boundary of the system: assets, kits and barcodes all
// live inside exactly one organization, and barcode uniqueness is enforced
// per organization.
package organization

import (
	"context"
	"strings"
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/entity"
)

// Label identifies the organization domain in errors and logs.
const Label = "Organization"

// Type distinguishes personal workspaces from team workspaces.
type Type string

const (
	TypePersonal Type = "PERSONAL"
	TypeTeam     Type = "TEAM"
)

func (t Type) Valid() bool {
	return t == TypePersonal || t == TypeTeam
}

// Organization is a workspace owning assets, kits and barcodes.
type Organization struct {
	entity.Base

	Name string `db:"name" json:"name"`
	Type Type   `db:"type" json:"type"`

	// OwnerUserID identifies the workspace owner.
	OwnerUserID string `db:"owner_user_id" json:"ownerUserId"`

	// BarcodesEnabled gates the barcode feature for this workspace.
	// When disabled, barcode operations are rejected with a 403.
	BarcodesEnabled   bool       `db:"barcodes_enabled" json:"barcodesEnabled"`
	BarcodesEnabledAt *time.Time `db:"barcodes_enabled_at" json:"barcodesEnabledAt,omitempty"`
}

// New creates an Organization with required fields.
func New(name string, typ Type, ownerUserID string) *Organization {
	return &Organization{
		Base:        entity.NewBase(),
		Name:        name,
		Type:        typ,
		OwnerUserID: ownerUserID,
	}
}

// Validate implements entity.Validatable.
func (o *Organization) Validate(ctx context.Context) error {
	if strings.TrimSpace(o.Name) == "" {
		return apperror.NewValidation("Name is required").
			WithLabel(Label).
			WithDetail("field", "name")
	}
	if !o.Type.Valid() {
		return apperror.NewValidation("invalid organization type").
			WithLabel(Label).
			WithDetail("field", "type").
			WithDetail("value", string(o.Type))
	}
	return nil
}
