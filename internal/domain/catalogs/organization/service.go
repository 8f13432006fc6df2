package organization

import (
	"context"
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/tx"
)

// Service provides business logic for the Organization catalog.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new Organization service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Create persists a new workspace.
func (s *Service) Create(ctx context.Context, name string, typ Type, ownerUserID string) (*Organization, error) {
	o := New(name, typ, ownerUserID)
	if err := o.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, apperror.NewDatabase("Failed to create organization", err).
			WithLabel(Label).
			WithDetail("name", name)
	}
	return o, nil
}

// GetByID retrieves a workspace.
func (s *Service) GetByID(ctx context.Context, organizationID id.ID) (*Organization, error) {
	o, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewDatabase("Failed to load organization", err).
			WithLabel(Label).
			WithDetail("id", organizationID)
	}
	return o, nil
}

// ListForOwner returns the workspaces owned by a user.
func (s *Service) ListForOwner(ctx context.Context, ownerUserID string) ([]Organization, error) {
	orgs, err := s.repo.ListForOwner(ctx, ownerUserID)
	if err != nil {
		return nil, apperror.NewDatabase("Failed to list organizations", err).
			WithLabel(Label).
			WithDetail("ownerUserId", ownerUserID)
	}
	return orgs, nil
}

// ToggleBarcodes switches the barcode feature for a team workspace.
// Personal workspaces cannot enable barcodes.
func (s *Service) ToggleBarcodes(ctx context.Context, organizationID id.ID, enabled bool) (*Organization, error) {
	o, err := s.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if o.Type != TypeTeam {
		return nil, apperror.NewValidation("Barcodes can only be enabled for team workspaces").
			WithLabel(Label).
			WithDetail("id", organizationID)
	}

	o.BarcodesEnabled = enabled
	if enabled {
		now := time.Now().UTC()
		o.BarcodesEnabledAt = &now
	} else {
		o.BarcodesEnabledAt = nil
	}
	o.Touch()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return nil, apperror.NewDatabase("Something went wrong while toggling barcode functionality. Please try again or contact support.", err).
			WithLabel(Label).
			WithDetail("id", organizationID).
			WithDetail("barcodesEnabled", enabled)
	}
	return o, nil
}

// RequireBarcodesEnabled loads the organization and rejects the request
// when the barcode feature is off for it.
func (s *Service) RequireBarcodesEnabled(ctx context.Context, organizationID id.ID) error {
	o, err := s.GetByID(ctx, organizationID)
	if err != nil {
		return err
	}
	if !o.BarcodesEnabled {
		return apperror.NewForbidden("Your workspace does not support scanning barcodes. Contact your workspace owner to activate this feature or try scanning a Shelf QR code.").
			WithLabel(Label).
			WithDetail("organizationId", organizationID)
	}
	return nil
}
