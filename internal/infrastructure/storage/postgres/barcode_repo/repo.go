// Package barcode_repo provides the PostgreSQL implementation of the
// barcode repository.
package barcode_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
)

const barcodeTable = "barcodes"

// copyThreshold is the batch size above which CreateMany switches from a
// multi-row INSERT to the COPY protocol. Spreadsheet imports routinely
// carry thousands of rows; interactive forms carry a handful.
const copyThreshold = 100

// Repo implements barcode.Repository.
type Repo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	executor  *postgres.BatchExecutor

	cols       []string
	linkedCols []string
}

// NewRepo creates a new barcode repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	cols := postgres.ExtractDBColumns[barcode.Barcode]()

	linkedCols := make([]string, 0, len(cols)+2)
	for _, c := range cols {
		linkedCols = append(linkedCols, "b."+c)
	}
	linkedCols = append(linkedCols, "a.title AS asset_title", "k.name AS kit_name")

	return &Repo{
		txManager:  txManager,
		inserter:   postgres.NewBatchInserter(txManager),
		executor:   postgres.NewBatchExecutor(txManager),
		cols:       cols,
		linkedCols: linkedCols,
	}
}

var _ barcode.Repository = (*Repo)(nil)

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// linkedSelect joins barcodes with their owners' display names. The joins
// stay LEFT so orphaned rows survive the query; the service decides what
// an ownerless match means.
func (r *Repo) linkedSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.linkedCols...).
		From(barcodeTable + " b").
		LeftJoin("assets a ON a.id = b.asset_id").
		LeftJoin("kits k ON k.id = b.kit_id")
}

// Create inserts a single barcode using its "db" tags.
func (r *Repo) Create(ctx context.Context, b *barcode.Barcode) error {
	data := postgres.StructToMap(b)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in barcode")
	}

	q := r.builder().
		Insert(barcodeTable).
		SetMap(r.filterColumns(data))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return r.mapError(err, "insert barcode")
	}

	return nil
}

// CreateMany bulk-inserts barcodes. Small batches go through one multi-row
// INSERT; large batches inside a transaction use COPY.
func (r *Repo) CreateMany(ctx context.Context, bs []*barcode.Barcode) error {
	if len(bs) == 0 {
		return nil
	}

	if len(bs) >= copyThreshold && r.txManager.GetTx(ctx) != nil {
		return r.copyMany(ctx, bs)
	}

	q := r.builder().
		Insert(barcodeTable).
		Columns(r.cols...)

	for _, b := range bs {
		data := postgres.StructToMap(b)
		row := make([]any, len(r.cols))
		for i, col := range r.cols {
			row[i] = data[col]
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build bulk insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return r.mapError(err, "bulk insert barcodes")
	}

	return nil
}

func (r *Repo) copyMany(ctx context.Context, bs []*barcode.Barcode) error {
	rows := make([][]any, len(bs))
	for i, b := range bs {
		data := postgres.StructToMap(b)
		row := make([]any, len(r.cols))
		for j, col := range r.cols {
			row[j] = data[col]
		}
		rows[i] = row
	}

	if _, err := r.inserter.CopyFromSlice(ctx, barcodeTable, r.cols, rows); err != nil {
		return r.mapError(err, "copy barcodes")
	}

	return nil
}

// Update changes type and/or value of one record, org-scoped. Nil fields
// keep their stored value. Returns the updated record.
func (r *Repo) Update(ctx context.Context, f barcode.UpdateFields) (*barcode.Barcode, error) {
	q := r.builder().
		Update(barcodeTable).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": f.ID}).
		Where(squirrel.Eq{"organization_id": f.OrganizationID}).
		Suffix("RETURNING " + strings.Join(r.cols, ", "))

	if f.Type != nil {
		q = q.Set("type", *f.Type)
	}
	if f.Value != nil {
		q = q.Set("value", *f.Value)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var b barcode.Barcode
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("barcode", f.ID.String())
		}
		return nil, r.mapError(err, "update barcode")
	}

	return &b, nil
}

// ApplyOps executes a reconciliation unit of work against the querier
// bound to the context. With an active transaction the ops go out as one
// pgx batch; the caller owns the atomicity boundary either way.
func (r *Repo) ApplyOps(ctx context.Context, ops []barcode.Op) error {
	if len(ops) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(ops))
	for _, op := range ops {
		sql, args, err := r.buildOp(op)
		if err != nil {
			return err
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	if r.txManager.GetTx(ctx) != nil {
		if err := r.executor.ExecuteBatch(ctx, queries); err != nil {
			return r.mapError(err, "apply barcode ops")
		}
		return nil
	}

	querier := r.txManager.GetQuerier(ctx)
	for _, q := range queries {
		if _, err := querier.Exec(ctx, q.SQL, q.Args...); err != nil {
			return r.mapError(err, "apply barcode ops")
		}
	}

	return nil
}

func (r *Repo) buildOp(op barcode.Op) (string, []any, error) {
	switch o := op.(type) {
	case barcode.OpCreate:
		data := postgres.StructToMap(o.Barcode)
		q := r.builder().
			Insert(barcodeTable).
			SetMap(r.filterColumns(data))
		return q.ToSql()

	case barcode.OpUpdate:
		q := r.builder().
			Update(barcodeTable).
			Set("type", o.Type).
			Set("value", o.Value).
			Set("updated_at", time.Now().UTC()).
			Where(squirrel.Eq{"id": o.ID}).
			Where(squirrel.Eq{"organization_id": o.OrganizationID})
		return q.ToSql()

	case barcode.OpDeleteMany:
		q := r.builder().
			Delete(barcodeTable).
			Where(squirrel.Eq{"id": o.IDs}).
			Where(squirrel.Eq{"organization_id": o.OrganizationID})
		return q.ToSql()

	default:
		return "", nil, fmt.Errorf("unknown barcode op %T", op)
	}
}

// DeleteByID removes a single barcode, org-scoped.
func (r *Repo) DeleteByID(ctx context.Context, barcodeID, organizationID id.ID) error {
	q := r.builder().
		Delete(barcodeTable).
		Where(squirrel.Eq{"id": barcodeID}).
		Where(squirrel.Eq{"organization_id": organizationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapError(err, "delete barcode")
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("barcode", barcodeID.String())
	}

	return nil
}

// DeleteForOwner removes all barcodes of an asset or kit, org-scoped.
// Deleting zero rows is not an error: the owner may simply carry none.
func (r *Repo) DeleteForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) error {
	col, err := ownerColumn(owner)
	if err != nil {
		return err
	}

	q := r.builder().
		Delete(barcodeTable).
		Where(squirrel.Eq{col: owner.ID}).
		Where(squirrel.Eq{"organization_id": organizationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapError(err, "delete barcodes for owner")
	}

	return nil
}

// GetByID fetches one record with its owner display name, org-scoped.
func (r *Repo) GetByID(ctx context.Context, barcodeID, organizationID id.ID) (*barcode.Linked, error) {
	q := r.linkedSelect().
		Where(squirrel.Eq{"b.id": barcodeID}).
		Where(squirrel.Eq{"b.organization_id": organizationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l barcode.Linked
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("barcode", barcodeID.String())
		}
		return nil, r.mapError(err, "get barcode by id")
	}

	return &l, nil
}

// FindByValue fetches a barcode by exact stored value with its owner
// summary. Returns nil without error when absent.
func (r *Repo) FindByValue(ctx context.Context, value string, organizationID id.ID) (*barcode.Linked, error) {
	q := r.linkedSelect().
		Where(squirrel.Eq{"b.value": value}).
		Where(squirrel.Eq{"b.organization_id": organizationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l barcode.Linked
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, r.mapError(err, "find barcode by value")
	}

	return &l, nil
}

// FindLinkedByValues fetches all barcodes whose value is in the given
// set, org-scoped. One query regardless of batch size.
func (r *Repo) FindLinkedByValues(ctx context.Context, values []string, organizationID id.ID) ([]barcode.Linked, error) {
	if len(values) == 0 {
		return nil, nil
	}

	q := r.linkedSelect().
		Where(squirrel.Eq{"b.value": values}).
		Where(squirrel.Eq{"b.organization_id": organizationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []barcode.Linked
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, r.mapError(err, "find barcodes by values")
	}

	return rows, nil
}

// ListForOwner returns all barcodes of an asset or kit, org-scoped,
// ordered by creation time ascending.
func (r *Repo) ListForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) ([]barcode.Barcode, error) {
	col, err := ownerColumn(owner)
	if err != nil {
		return nil, err
	}

	q := r.builder().
		Select(r.cols...).
		From(barcodeTable).
		Where(squirrel.Eq{col: owner.ID}).
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []barcode.Barcode
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, r.mapError(err, "list barcodes for owner")
	}

	return rows, nil
}

// Relink attaches an orphaned barcode row to a new owner. A row that
// already has an owner is left untouched and reported as a conflict.
func (r *Repo) Relink(ctx context.Context, barcodeID id.ID, owner barcode.Owner, organizationID id.ID) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	q := r.builder().
		Update(barcodeTable).
		Set("asset_id", owner.AssetID()).
		Set("kit_id", owner.KitID()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": barcodeID}).
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.Eq{"asset_id": nil}).
		Where(squirrel.Eq{"kit_id": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build relink: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapError(err, "relink barcode")
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConflict("Barcode is already linked to another item").
			WithLabel(barcode.Label).
			WithDetail("id", barcodeID.String())
	}

	return nil
}

// filterColumns keeps only the keys that exist as table columns.
func (r *Repo) filterColumns(data map[string]any) map[string]any {
	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered
}

// mapError translates driver failures. A unique-constraint rejection on
// (organization_id, value) becomes a unique-violation app error so the
// service can enrich it with per-field detail; everything else surfaces
// as a database error.
func (r *Repo) mapError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.NewUniqueViolation(barcode.Label, "Barcode already in use").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return apperror.NewDatabase(op, err)
}

func ownerColumn(owner barcode.Owner) (string, error) {
	switch owner.Kind {
	case barcode.OwnerAsset:
		return "asset_id", nil
	case barcode.OwnerKit:
		return "kit_id", nil
	default:
		return "", apperror.NewValidation("an asset or kit reference is required").WithLabel(barcode.Label)
	}
}
