package catalog_repo

import (
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/kit"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
)

const kitTable = "kits"

// KitRepo implements kit.Repository.
type KitRepo struct {
	*BaseCatalogRepo[*kit.Kit]
}

// NewKitRepo creates a new kit repository.
func NewKitRepo(txManager *postgres.TxManager) *KitRepo {
	return &KitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*kit.Kit](
			txManager,
			kitTable,
			"kit",
			postgres.ExtractDBColumns[kit.Kit](),
			[]string{"name"},
			func() *kit.Kit { return &kit.Kit{} },
		),
	}
}

var _ kit.Repository = (*KitRepo)(nil)
