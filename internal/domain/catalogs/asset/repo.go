package asset

import (
	"context"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain"
)

// Repository defines the interface for Asset persistence.
type Repository interface {
	domain.CatalogRepository[*Asset]

	// GetBySequentialID retrieves an asset by its display identifier
	// within the organization.
	GetBySequentialID(ctx context.Context, sequentialID string, organizationID id.ID) (*Asset, error)
}
