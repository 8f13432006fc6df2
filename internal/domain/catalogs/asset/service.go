package asset

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/tx"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/sequence"
)

// BarcodeManager is the surface of the barcode service the asset catalog
// needs: lifecycle of barcodes owned by an asset.
type BarcodeManager interface {
	CreateBatch(ctx context.Context, inputs []barcode.Input, organizationID id.ID, userID string, owner barcode.Owner) error
	Reconcile(ctx context.Context, inputs []barcode.Input, owner barcode.Owner, organizationID id.ID, userID string) error
	DeleteForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) error
	Attach(ctx context.Context, barcodeID id.ID, owner barcode.Owner, organizationID id.ID) error
	ListForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) ([]barcode.Barcode, error)
}

// Service provides business logic for the Asset catalog. Common CRUD is
// delegated to the embedded generic catalog service; asset-specific steps
// (sequential id assignment, barcode cleanup) run as hooks.
type Service struct {
	*domain.CatalogService[*Asset]
	repo     Repository
	seq      sequence.Generator
	barcodes BarcodeManager
}

// NewService creates a new Asset service.
func NewService(repo Repository, txm tx.Manager, seq sequence.Generator, barcodes BarcodeManager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Asset]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "asset",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		seq:            seq,
		barcodes:       barcodes,
	}

	base.Hooks().OnBeforeCreate(svc.assignSequentialID)
	base.Hooks().OnBeforeDelete(svc.removeBarcodes)

	return svc
}

// assignSequentialID gives the asset its display identifier when missing.
func (s *Service) assignSequentialID(ctx context.Context, a *Asset) error {
	if a.SequentialID != "" {
		return nil
	}
	sid, err := s.seq.NextID(ctx, a.OrganizationID.String(), "")
	if err != nil {
		return apperror.NewInternal(err).
			WithLabel(Label).
			WithDetail("step", "sequential_id")
	}
	a.SequentialID = sid
	return nil
}

// removeBarcodes deletes the asset's barcodes before the asset itself
// goes away, so no orphans accumulate from deletions.
func (s *Service) removeBarcodes(ctx context.Context, a *Asset) error {
	return s.barcodes.DeleteForOwner(ctx, barcode.AssetOwner(a.ID), a.OrganizationID)
}

// CreateParams are the inputs for asset creation.
type CreateParams struct {
	Title          string
	Description    *string
	Valuation      *decimal.Decimal
	OrganizationID id.ID
	UserID         string

	// Barcodes to attach on creation. Validated and persisted after the
	// asset row exists.
	Barcodes []barcode.Input
}

// Create persists a new asset and its initial barcodes.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Asset, error) {
	a := New(p.Title, p.OrganizationID)
	a.Description = p.Description
	a.Valuation = p.Valuation

	if err := s.CatalogService.Create(ctx, a); err != nil {
		return nil, err
	}

	if len(p.Barcodes) > 0 {
		if err := s.barcodes.CreateBatch(ctx, p.Barcodes, p.OrganizationID, p.UserID, barcode.AssetOwner(a.ID)); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// UpdateParams are the inputs for asset updates. Nil fields keep their
// stored value; Barcodes nil leaves the barcode set untouched, while an
// empty non-nil slice removes every barcode.
type UpdateParams struct {
	ID             id.ID
	OrganizationID id.ID
	UserID         string

	Title       *string
	Description *string
	Valuation   *decimal.Decimal
	Status      *Status

	Barcodes []barcode.Input
}

// Update modifies an asset and reconciles its barcode set when one was
// submitted.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*Asset, error) {
	a, err := s.GetByID(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = p.Description
	}
	if p.Valuation != nil {
		a.Valuation = p.Valuation
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	a.Touch()

	if err := s.CatalogService.Update(ctx, a); err != nil {
		return nil, err
	}

	if p.Barcodes != nil {
		err := s.barcodes.Reconcile(ctx, p.Barcodes, barcode.AssetOwner(a.ID), p.OrganizationID, p.UserID)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// GetBySequentialID retrieves an asset by its display identifier.
func (s *Service) GetBySequentialID(ctx context.Context, sequentialID string, organizationID id.ID) (*Asset, error) {
	if !sequence.IsValidSequentialIDFormat(sequentialID) {
		return nil, apperror.NewValidation("invalid sequential id format").
			WithLabel(Label).
			WithDetail("sequentialId", sequentialID)
	}
	a, err := s.repo.GetBySequentialID(ctx, sequentialID, organizationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("asset", sequentialID)
		}
		return nil, err
	}
	return a, nil
}

// Barcodes lists the asset's barcodes.
func (s *Service) Barcodes(ctx context.Context, assetID, organizationID id.ID) ([]barcode.Barcode, error) {
	return s.barcodes.ListForOwner(ctx, barcode.AssetOwner(assetID), organizationID)
}

// CreateFromImport materializes parsed import entries into assets with
// their barcodes. Orphaned barcode rows matched during parsing are
// relinked to the new asset instead of recreated. Returns the created
// assets keyed by the import row key.
func (s *Service) CreateFromImport(ctx context.Context, entries []barcode.ImportEntry, organizationID id.ID, userID string) (map[string]*Asset, error) {
	created := make(map[string]*Asset, len(entries))

	for _, entry := range entries {
		a := New(entry.Title, organizationID)
		if err := s.CatalogService.Create(ctx, a); err != nil {
			return created, apperror.NewDatabase("Failed to create asset from import", err).
				WithLabel(Label).
				WithDetail("key", entry.Key).
				WithDetail("title", entry.Title)
		}

		owner := barcode.AssetOwner(a.ID)
		var fresh []barcode.Input
		for _, b := range entry.Barcodes {
			if b.ExistingID != nil {
				if err := s.barcodes.Attach(ctx, *b.ExistingID, owner, organizationID); err != nil {
					return created, err
				}
				continue
			}
			fresh = append(fresh, barcode.Input{Type: b.Type, Value: b.Value})
		}
		if len(fresh) > 0 {
			if err := s.barcodes.CreateBatch(ctx, fresh, organizationID, userID, owner); err != nil {
				return created, err
			}
		}

		created[entry.Key] = a
	}

	return created, nil
}
