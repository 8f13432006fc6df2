package kit

import (
	"context"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/tx"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
)

// BarcodeManager is the surface of the barcode service the kit catalog
// needs.
type BarcodeManager interface {
	CreateBatch(ctx context.Context, inputs []barcode.Input, organizationID id.ID, userID string, owner barcode.Owner) error
	Reconcile(ctx context.Context, inputs []barcode.Input, owner barcode.Owner, organizationID id.ID, userID string) error
	DeleteForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) error
	ListForOwner(ctx context.Context, owner barcode.Owner, organizationID id.ID) ([]barcode.Barcode, error)
}

// Service provides business logic for the Kit catalog.
type Service struct {
	*domain.CatalogService[*Kit]
	repo     Repository
	barcodes BarcodeManager
}

// NewService creates a new Kit service.
func NewService(repo Repository, txm tx.Manager, barcodes BarcodeManager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Kit]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "kit",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		barcodes:       barcodes,
	}

	base.Hooks().OnBeforeDelete(svc.removeBarcodes)

	return svc
}

func (s *Service) removeBarcodes(ctx context.Context, k *Kit) error {
	return s.barcodes.DeleteForOwner(ctx, barcode.KitOwner(k.ID), k.OrganizationID)
}

// CreateParams are the inputs for kit creation.
type CreateParams struct {
	Name           string
	Description    *string
	OrganizationID id.ID
	UserID         string

	Barcodes []barcode.Input
}

// Create persists a new kit and its initial barcodes.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Kit, error) {
	k := New(p.Name, p.OrganizationID)
	k.Description = p.Description

	if err := s.CatalogService.Create(ctx, k); err != nil {
		return nil, err
	}

	if len(p.Barcodes) > 0 {
		if err := s.barcodes.CreateBatch(ctx, p.Barcodes, p.OrganizationID, p.UserID, barcode.KitOwner(k.ID)); err != nil {
			return nil, err
		}
	}

	return k, nil
}

// UpdateParams are the inputs for kit updates. Nil fields keep their
// stored value; Barcodes nil leaves the barcode set untouched, while an
// empty non-nil slice removes every barcode.
type UpdateParams struct {
	ID             id.ID
	OrganizationID id.ID
	UserID         string

	Name        *string
	Description *string
	Status      *Status

	Barcodes []barcode.Input
}

// Update modifies a kit and reconciles its barcode set when one was
// submitted.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*Kit, error) {
	k, err := s.GetByID(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		k.Name = *p.Name
	}
	if p.Description != nil {
		k.Description = p.Description
	}
	if p.Status != nil {
		k.Status = *p.Status
	}
	k.Touch()

	if err := s.CatalogService.Update(ctx, k); err != nil {
		return nil, err
	}

	if p.Barcodes != nil {
		err := s.barcodes.Reconcile(ctx, p.Barcodes, barcode.KitOwner(k.ID), p.OrganizationID, p.UserID)
		if err != nil {
			return nil, err
		}
	}

	return k, nil
}

// Barcodes lists the kit's barcodes.
func (s *Service) Barcodes(ctx context.Context, kitID, organizationID id.ID) ([]barcode.Barcode, error) {
	return s.barcodes.ListForOwner(ctx, barcode.KitOwner(kitID), organizationID)
}
