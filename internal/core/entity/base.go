// Package entity defines the base types shared by all persisted entities.
package entity

import (
	"context"
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains the fields every persisted entity carries.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a new Base with generated ID and timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// Scoped extends Base with the owning organization.
// Every query against a scoped entity must carry the organization id;
// ownership checks are implicit in that scoping.
type Scoped struct {
	Base

	OrganizationID id.ID `db:"organization_id" json:"organizationId"`
}

// NewScoped creates a new Scoped entity for an organization.
func NewScoped(organizationID id.ID) Scoped {
	return Scoped{
		Base:           NewBase(),
		OrganizationID: organizationID,
	}
}
