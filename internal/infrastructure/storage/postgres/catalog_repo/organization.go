package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
)

const organizationTable = "organizations"

// OrganizationRepo implements organization.Repository. Organizations are
// the tenancy boundary itself, so none of the queries here carry an
// organization_id filter; the base catalog repo does not apply.
type OrganizationRepo struct {
	txManager *postgres.TxManager
	cols      []string
}

// NewOrganizationRepo creates a new organization repository.
func NewOrganizationRepo(txManager *postgres.TxManager) *OrganizationRepo {
	return &OrganizationRepo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[organization.Organization](),
	}
}

var _ organization.Repository = (*OrganizationRepo)(nil)

func (r *OrganizationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new organization.
func (r *OrganizationRepo) Create(ctx context.Context, o *organization.Organization) error {
	data := postgres.StructToMap(o)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in organization")
	}

	q := r.builder().
		Insert(organizationTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase("insert organization", err)
	}

	return nil
}

// GetByID retrieves an organization by id.
func (r *OrganizationRepo) GetByID(ctx context.Context, organizationID id.ID) (*organization.Organization, error) {
	q := r.builder().
		Select(r.cols...).
		From(organizationTable).
		Where(squirrel.Eq{"id": organizationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o organization.Organization
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("organization", organizationID.String())
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return &o, nil
}

// Update persists changed organization fields.
func (r *OrganizationRepo) Update(ctx context.Context, o *organization.Organization) error {
	data := postgres.StructToMap(o)
	delete(data, "id")
	delete(data, "created_at")
	data["updated_at"] = time.Now().UTC()

	q := r.builder().
		Update(organizationTable).
		SetMap(data).
		Where(squirrel.Eq{"id": o.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update organization", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("organization", o.ID.String())
	}

	return nil
}

// ListForOwner returns the workspaces owned by a user.
func (r *OrganizationRepo) ListForOwner(ctx context.Context, ownerUserID string) ([]organization.Organization, error) {
	q := r.builder().
		Select(r.cols...).
		From(organizationTable).
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var orgs []organization.Organization
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &orgs, sql, args...); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}

	return orgs, nil
}
