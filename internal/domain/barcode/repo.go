package barcode

import (
	"context"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// UpdateFields carries a partial update for a single barcode. Nil means
// the field keeps its stored value.
type UpdateFields struct {
	ID             id.ID
	OrganizationID id.ID
	Type           *Type
	Value          *string
}

// Repository defines the persistence contract for barcodes.
//
// Implementations must translate the store's unique-constraint rejection on
// the (organization_id, value) index into apperror.CodeUniqueViolation so
// the service can enrich it with per-field detail; any other persistence
// failure surfaces as an infrastructure error.
type Repository interface {
	// Create inserts a single barcode.
	Create(ctx context.Context, b *Barcode) error

	// CreateMany bulk-inserts barcodes. Implementations may use a single
	// multi-row statement; callers guarantee the slice is non-empty.
	CreateMany(ctx context.Context, bs []*Barcode) error

	// Update changes type and/or value of one record, org-scoped. Nil
	// fields are left untouched. Returns the updated record, or
	// not-found when the id is outside the organization.
	Update(ctx context.Context, f UpdateFields) (*Barcode, error)

	// ApplyOps executes a reconciliation unit of work. Callers wrap the
	// call in a transaction; ApplyOps itself just executes each op against
	// the querier bound to the context.
	ApplyOps(ctx context.Context, ops []Op) error

	// DeleteByID removes a single barcode, org-scoped.
	DeleteByID(ctx context.Context, barcodeID, organizationID id.ID) error

	// DeleteForOwner removes all barcodes of an asset or kit, org-scoped.
	DeleteForOwner(ctx context.Context, owner Owner, organizationID id.ID) error

	// GetByID fetches one record with its owner display name, org-scoped.
	GetByID(ctx context.Context, barcodeID, organizationID id.ID) (*Linked, error)

	// FindByValue fetches a barcode by exact stored value, joined with its
	// owner summary. Returns nil (no error) when absent.
	FindByValue(ctx context.Context, value string, organizationID id.ID) (*Linked, error)

	// FindLinkedByValues fetches all barcodes whose value is in the given
	// set, org-scoped, each joined with its owner display name. One query
	// regardless of batch size.
	FindLinkedByValues(ctx context.Context, values []string, organizationID id.ID) ([]Linked, error)

	// ListForOwner returns all barcodes of an asset or kit, org-scoped,
	// ordered by creation time ascending.
	ListForOwner(ctx context.Context, owner Owner, organizationID id.ID) ([]Barcode, error)

	// Relink attaches an existing (orphaned) barcode row to a new owner.
	Relink(ctx context.Context, barcodeID id.ID, owner Owner, organizationID id.ID) error
}

// Auditor records barcode mutations for the audit trail. Recording is
// best-effort: implementations log failures instead of propagating them,
// so audit problems never fail a business operation.
type Auditor interface {
	Record(ctx context.Context, action string, entityID id.ID, organizationID id.ID, userID string, changes any)
}
