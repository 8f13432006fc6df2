// Package barcode provides the barcode management service: type-specific
// validation, normalization, organization-wide uniqueness enforcement and
// diff-based reconciliation of the barcodes attached to an asset or a kit.
package barcode

import (
	"context"
	"fmt"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/entity"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Label identifies this subsystem in structured errors.
const Label = "Barcode"

// Type is the closed enumeration of supported barcode symbologies.
type Type string

const (
	TypeCode128    Type = "Code128"
	TypeCode39     Type = "Code39"
	TypeDataMatrix Type = "DataMatrix"
	TypeExternalQR Type = "ExternalQR"
	TypeEAN13      Type = "EAN13"
)

// Types lists all supported barcode types in a stable order.
// The order also drives the import column scan (barcode_<Type>).
var Types = []Type{TypeCode128, TypeCode39, TypeDataMatrix, TypeExternalQR, TypeEAN13}

// Valid reports whether t is a known barcode type.
func (t Type) Valid() bool {
	switch t {
	case TypeCode128, TypeCode39, TypeDataMatrix, TypeExternalQR, TypeEAN13:
		return true
	}
	return false
}

// ParseType converts a string to a Type with validation.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", apperror.NewValidation("Unknown barcode type").
			WithLabel(Label).
			WithDetail("type", s)
	}
	return t, nil
}

// OwnerKind discriminates the owning entity of a barcode.
type OwnerKind string

const (
	OwnerNone  OwnerKind = ""
	OwnerAsset OwnerKind = "asset"
	OwnerKit   OwnerKind = "kit"
)

// Owner is the tagged union over the two nullable foreign keys the store
// keeps (asset_id, kit_id). Application code never reasons about the
// forbidden "both set" or "both null" states directly.
type Owner struct {
	Kind OwnerKind
	ID   id.ID
}

// AssetOwner references an asset as the owning entity.
func AssetOwner(assetID id.ID) Owner { return Owner{Kind: OwnerAsset, ID: assetID} }

// KitOwner references a kit as the owning entity.
func KitOwner(kitID id.ID) Owner { return Owner{Kind: OwnerKit, ID: kitID} }

// NoOwner is used for lookups that are not scoped to an owning entity.
func NoOwner() Owner { return Owner{} }

// IsZero reports whether the owner reference is absent.
func (o Owner) IsZero() bool { return o.Kind == OwnerNone }

// Validate checks that an entity-scoped operation received a usable owner.
func (o Owner) Validate() error {
	switch o.Kind {
	case OwnerAsset, OwnerKit:
		if id.IsNil(o.ID) {
			return apperror.NewValidation("owner id is required").WithLabel(Label)
		}
		return nil
	case OwnerNone:
		return apperror.NewValidation("an asset or kit reference is required").WithLabel(Label)
	default:
		return apperror.NewValidation(fmt.Sprintf("unknown owner kind %q", o.Kind)).WithLabel(Label)
	}
}

// AssetID returns the asset foreign key column value for this owner.
func (o Owner) AssetID() *id.ID {
	if o.Kind == OwnerAsset {
		v := o.ID
		return &v
	}
	return nil
}

// KitID returns the kit foreign key column value for this owner.
func (o Owner) KitID() *id.ID {
	if o.Kind == OwnerKit {
		v := o.ID
		return &v
	}
	return nil
}

// Barcode is a persisted (type, value) pair attached to exactly one asset
// or kit within an organization. Value is stored normalized (see Normalize)
// and is unique organization-wide, enforced by the store's constraint.
type Barcode struct {
	entity.Scoped

	Type  Type   `db:"type" json:"type"`
	Value string `db:"value" json:"value"`

	// Exactly one of AssetID/KitID is set once persisted.
	AssetID *id.ID `db:"asset_id" json:"assetId,omitempty"`
	KitID   *id.ID `db:"kit_id" json:"kitId,omitempty"`
}

// New creates a Barcode for an owner. The value must already be normalized.
func New(t Type, value string, organizationID id.ID, owner Owner) *Barcode {
	return &Barcode{
		Scoped:  entity.NewScoped(organizationID),
		Type:    t,
		Value:   value,
		AssetID: owner.AssetID(),
		KitID:   owner.KitID(),
	}
}

// Owner reconstructs the tagged union from the stored foreign keys.
func (b *Barcode) Owner() Owner {
	switch {
	case b.AssetID != nil:
		return AssetOwner(*b.AssetID)
	case b.KitID != nil:
		return KitOwner(*b.KitID)
	default:
		return NoOwner()
	}
}

// Orphaned reports whether the barcode has no owning entity.
// Orphaned rows are reusable during import instead of being rejected.
func (b *Barcode) Orphaned() bool {
	return b.AssetID == nil && b.KitID == nil
}

// Validate implements entity.Validatable.
func (b *Barcode) Validate(ctx context.Context) error {
	if err := Validate(b.Type, b.Value); err != nil {
		return apperror.NewValidation(err.Error()).WithLabel(Label).
			WithDetail("type", string(b.Type)).
			WithDetail("value", b.Value)
	}
	return nil
}

// Linked is a Barcode joined with its owning entity's display name,
// produced by the uniqueness query so conflicts can name what they
// collide with.
type Linked struct {
	Barcode

	AssetTitle *string `db:"asset_title" json:"assetTitle,omitempty"`
	KitName    *string `db:"kit_name" json:"kitName,omitempty"`
}

// OwnerName returns the display name of the owning asset or kit.
func (l *Linked) OwnerName() string {
	switch {
	case l.AssetTitle != nil:
		return *l.AssetTitle
	case l.KitName != nil:
		return *l.KitName
	default:
		return "Unknown item"
	}
}

// Input is a submitted (type, value) pair. ID is set for reconciliation
// entries that refer to an existing record.
type Input struct {
	ID    *id.ID `json:"id,omitempty"`
	Type  Type   `json:"type"`
	Value string `json:"value"`
}

// --- Unit of work ---

// Op is one operation of a reconciliation unit of work. The whole list is
// applied atomically by the repository; partial application is never
// acceptable because it could leave an entity with an inconsistent
// barcode set.
type Op interface {
	isOp()
}

// OpCreate inserts a new barcode row.
type OpCreate struct {
	Barcode *Barcode
}

// OpUpdate rewrites type and value of an existing row, scoped to the
// organization so cross-tenant ids are a no-op.
type OpUpdate struct {
	ID             id.ID
	OrganizationID id.ID
	Type           Type
	Value          string
}

// OpDeleteMany removes rows by id, scoped to the organization.
type OpDeleteMany struct {
	IDs            []id.ID
	OrganizationID id.ID
}

func (OpCreate) isOp()     {}
func (OpUpdate) isOp()     {}
func (OpDeleteMany) isOp() {}
