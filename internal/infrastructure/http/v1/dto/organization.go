package dto

import (
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
)

// CreateOrganizationRequest creates a workspace.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// ToggleBarcodesRequest enables or disables barcodes for a workspace.
type ToggleBarcodesRequest struct {
	Enabled bool `json:"enabled"`
}

// OrganizationResponse is the wire shape of a workspace.
type OrganizationResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	OwnerUserID       string     `json:"ownerUserId"`
	BarcodesEnabled   bool       `json:"barcodesEnabled"`
	BarcodesEnabledAt *time.Time `json:"barcodesEnabledAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FromOrganization maps a domain organization onto the wire.
func FromOrganization(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                o.ID.String(),
		Name:              o.Name,
		Type:              string(o.Type),
		OwnerUserID:       o.OwnerUserID,
		BarcodesEnabled:   o.BarcodesEnabled,
		BarcodesEnabledAt: o.BarcodesEnabledAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// FromOrganizations maps a list.
func FromOrganizations(orgs []organization.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = FromOrganization(&orgs[i])
	}
	return out
}
