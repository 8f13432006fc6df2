package organization

import (
	"context"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Repository defines the interface for Organization persistence.
// Organizations are the tenancy boundary, so unlike the other catalogs
// their operations are not scoped by a parent organization.
type Repository interface {
	Create(ctx context.Context, o *Organization) error

	GetByID(ctx context.Context, organizationID id.ID) (*Organization, error)

	Update(ctx context.Context, o *Organization) error

	// ListForOwner returns the workspaces owned by a user.
	ListForOwner(ctx context.Context, ownerUserID string) ([]Organization, error)
}
