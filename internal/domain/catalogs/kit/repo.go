package kit

import (
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain"
)

// Repository defines the interface for Kit persistence.
type Repository interface {
	domain.CatalogRepository[*Kit]
}
