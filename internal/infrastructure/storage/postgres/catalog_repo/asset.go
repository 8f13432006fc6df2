package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/asset"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
)

const assetTable = "assets"

// AssetRepo implements asset.Repository.
type AssetRepo struct {
	*BaseCatalogRepo[*asset.Asset]
}

// NewAssetRepo creates a new asset repository.
func NewAssetRepo(txManager *postgres.TxManager) *AssetRepo {
	return &AssetRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*asset.Asset](
			txManager,
			assetTable,
			"asset",
			postgres.ExtractDBColumns[asset.Asset](),
			[]string{"title", "sequential_id"},
			func() *asset.Asset { return &asset.Asset{} },
		),
	}
}

var _ asset.Repository = (*AssetRepo)(nil)

// GetBySequentialID retrieves an asset by its display identifier within
// the organization.
func (r *AssetRepo) GetBySequentialID(ctx context.Context, sequentialID string, organizationID id.ID) (*asset.Asset, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[asset.Asset]()...).
		From(assetTable).
		Where(squirrel.Eq{"sequential_id": sequentialID}).
		Where(squirrel.Eq{"organization_id": organizationID}).
		Limit(1)

	return r.FindOne(ctx, q)
}
