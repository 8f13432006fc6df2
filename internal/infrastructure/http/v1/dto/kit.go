package dto

import (
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/kit"
)

// CreateKitRequest creates a kit, optionally with initial barcodes.
type CreateKitRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description,omitempty"`
	Barcodes    []BarcodeInput `json:"barcodes,omitempty"`
}

// UpdateKitRequest updates a kit. Nil fields keep their stored value.
type UpdateKitRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Barcodes    []BarcodeInput `json:"barcodes,omitempty"`
}

// KitResponse is the wire shape of a kit.
type KitResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromKit maps a domain kit onto the wire.
func FromKit(k *kit.Kit) KitResponse {
	return KitResponse{
		ID:             k.ID.String(),
		OrganizationID: k.OrganizationID.String(),
		Name:           k.Name,
		Description:    k.Description,
		Status:         string(k.Status),
		CreatedAt:      k.CreatedAt,
		UpdatedAt:      k.UpdatedAt,
	}
}
