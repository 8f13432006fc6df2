package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/asset"
)

// CreateAssetRequest creates an asset, optionally with initial barcodes.
type CreateAssetRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description *string        `json:"description,omitempty"`
	Valuation   *string        `json:"valuation,omitempty"`
	Barcodes    []BarcodeInput `json:"barcodes,omitempty"`
}

// UpdateAssetRequest updates an asset. Nil fields keep their stored
// value. Barcodes absent leaves the set untouched; an empty list removes
// every barcode.
type UpdateAssetRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Valuation   *string        `json:"valuation,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Barcodes    []BarcodeInput `json:"barcodes,omitempty"`
}

// AssetResponse is the wire shape of an asset.
type AssetResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	SequentialID   string    `json:"sequentialId"`
	Status         string    `json:"status"`
	Valuation      *string   `json:"valuation,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromAsset maps a domain asset onto the wire.
func FromAsset(a *asset.Asset) AssetResponse {
	resp := AssetResponse{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		Title:          a.Title,
		Description:    a.Description,
		SequentialID:   a.SequentialID,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.Valuation != nil {
		s := a.Valuation.String()
		resp.Valuation = &s
	}
	return resp
}

// ParseValuation converts the wire valuation into a decimal.
func ParseValuation(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
