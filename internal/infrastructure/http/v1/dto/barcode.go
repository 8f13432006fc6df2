package dto

import (
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
)

// BarcodeInput is a submitted (type, value) pair. ID refers to an existing
// record during reconciliation.
type BarcodeInput struct {
	ID    *string `json:"id,omitempty"`
	Type  string  `json:"type" binding:"required"`
	Value string  `json:"value" binding:"required"`
}

// ToDomain converts the wire input into a domain input.
func (i BarcodeInput) ToDomain() (barcode.Input, error) {
	t, err := barcode.ParseType(i.Type)
	if err != nil {
		return barcode.Input{}, err
	}

	in := barcode.Input{Type: t, Value: i.Value}
	if i.ID != nil && *i.ID != "" {
		parsed, err := id.Parse(*i.ID)
		if err != nil {
			return barcode.Input{}, apperror.NewValidation("invalid barcode id format").
				WithLabel(barcode.Label).
				WithDetail("id", *i.ID)
		}
		in.ID = &parsed
	}
	return in, nil
}

// BarcodeInputsToDomain converts a submitted list.
func BarcodeInputsToDomain(inputs []BarcodeInput) ([]barcode.Input, error) {
	if inputs == nil {
		return nil, nil
	}
	out := make([]barcode.Input, 0, len(inputs))
	for _, i := range inputs {
		in, err := i.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// CreateBarcodeRequest creates a single barcode for an asset or kit.
type CreateBarcodeRequest struct {
	Type    string  `json:"type" binding:"required"`
	Value   string  `json:"value" binding:"required"`
	AssetID *string `json:"assetId,omitempty"`
	KitID   *string `json:"kitId,omitempty"`
}

// UpdateBarcodeRequest modifies type and/or value of one barcode.
type UpdateBarcodeRequest struct {
	Type  *string `json:"type,omitempty"`
	Value *string `json:"value,omitempty"`
}

// ReconcileBarcodesRequest replaces an owner's barcode set with the
// submitted one via create/update/delete diffing.
type ReconcileBarcodesRequest struct {
	Barcodes []BarcodeInput `json:"barcodes" binding:"required"`
}

// BarcodeResponse is the wire shape of a barcode.
type BarcodeResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Value          string    `json:"value"`
	OrganizationID string    `json:"organizationId"`
	AssetID        *string   `json:"assetId,omitempty"`
	KitID          *string   `json:"kitId,omitempty"`
	WarnLong       bool      `json:"warnLong,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromBarcode maps a domain barcode onto the wire.
func FromBarcode(b *barcode.Barcode) BarcodeResponse {
	resp := BarcodeResponse{
		ID:             b.ID.String(),
		Type:           string(b.Type),
		Value:          b.Value,
		OrganizationID: b.OrganizationID.String(),
		WarnLong:       barcode.ShouldWarnLong(b.Type, b.Value),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.AssetID != nil {
		s := b.AssetID.String()
		resp.AssetID = &s
	}
	if b.KitID != nil {
		s := b.KitID.String()
		resp.KitID = &s
	}
	return resp
}

// FromBarcodes maps a list.
func FromBarcodes(bs []barcode.Barcode) []BarcodeResponse {
	out := make([]BarcodeResponse, len(bs))
	for i := range bs {
		out[i] = FromBarcode(&bs[i])
	}
	return out
}

// LinkedBarcodeResponse adds the owner's display name, used by scan
// lookups to tell the user what the code is attached to.
type LinkedBarcodeResponse struct {
	BarcodeResponse
	OwnerName string `json:"ownerName"`
}

// FromLinked maps a joined barcode row onto the wire.
func FromLinked(l *barcode.Linked) LinkedBarcodeResponse {
	return LinkedBarcodeResponse{
		BarcodeResponse: FromBarcode(&l.Barcode),
		OwnerName:       l.OwnerName(),
	}
}

// --- Import ---

// ImportRequest is the parsed spreadsheet submitted for import. Each row
// is keyed by column name; "key" and "title" identify the asset, and
// barcode_<Type> columns carry comma-separated values.
type ImportRequest struct {
	Rows []map[string]string `json:"rows" binding:"required"`
}

// ToImportRows converts the wire rows into domain import rows.
func (r ImportRequest) ToImportRows() []barcode.ImportRow {
	rows := make([]barcode.ImportRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = barcode.ImportRow(row)
	}
	return rows
}

// ImportResponse reports the created assets keyed by import row key.
type ImportResponse struct {
	Created map[string]AssetResponse `json:"created"`
}
