package barcode

import (
	"context"
	"fmt"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/tx"
)

// Conflict messages. The exact wording is part of the service contract:
// UI layers render these verbatim next to the offending inputs.
const (
	msgDuplicatedInForm = "This barcode value is duplicated in the form"
	msgAlreadyInUse     = "Some barcode values are already in use. Please use unique values."
)

// Audit actions recorded for barcode mutations.
const (
	auditCreated    = "barcode.created"
	auditUpdated    = "barcode.updated"
	auditReconciled = "barcode.reconciled"
	auditDeleted    = "barcode.deleted"
	auditReplaced   = "barcode.replaced"
)

// Service provides business logic for barcode management.
//
// The store's unique constraint on (organization_id, value) is the actual
// race-safety mechanism; the service's own uniqueness pre-check exists to
// produce friendly per-field errors, never to decide success or failure.
type Service struct {
	repo  Repository
	txm   tx.Manager
	audit Auditor // optional, best-effort
}

// NewService creates a new barcode service.
func NewService(repo Repository, txm tx.Manager, audit Auditor) *Service {
	return &Service{repo: repo, txm: txm, audit: audit}
}

// CreateParams are the inputs for a single barcode creation.
type CreateParams struct {
	Type           Type
	Value          string
	OrganizationID id.ID
	UserID         string
	Owner          Owner
}

// Create validates, normalizes and persists a single barcode.
//
// On a uniqueness rejection from the store the uniqueness checker is re-run
// for this pair to produce a precise field error; if the checker finds
// nothing (the conflicting row vanished meanwhile), a generic typed
// conflict is returned instead. No raw store error ever reaches callers.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Barcode, error) {
	if err := p.Owner.Validate(); err != nil {
		return nil, err
	}

	value, err := prepare(p.Type, p.Value)
	if err != nil {
		return nil, apperror.NewValidation(err.Error()).
			WithLabel(Label).
			WithDetail("type", string(p.Type)).
			WithDetail("value", p.Value)
	}

	b := New(p.Type, value, p.OrganizationID, p.Owner)
	if err := s.repo.Create(ctx, b); err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, s.explainConflict(ctx, []Input{{Type: p.Type, Value: p.Value}}, p.OrganizationID, NoOwner(), err)
		}
		return nil, apperror.NewDatabase("Failed to create barcode", err).
			WithLabel(Label).
			WithDetail("value", value).
			WithDetail("organizationId", p.OrganizationID)
	}

	s.record(ctx, auditCreated, b.ID, p.OrganizationID, p.UserID, b)
	return b, nil
}

// CreateBatch validates and persists a batch of barcodes for one owner in a
// single bulk insertion. The whole batch is validated up front; one invalid
// entry fails the call before any store mutation. An empty batch is a no-op.
func (s *Service) CreateBatch(ctx context.Context, inputs []Input, organizationID id.ID, userID string, owner Owner) error {
	if len(inputs) == 0 {
		return nil
	}
	if err := owner.Validate(); err != nil {
		return err
	}

	bs := make([]*Barcode, len(inputs))
	for i, in := range inputs {
		value, err := prepare(in.Type, in.Value)
		if err != nil {
			return invalidEntryErr(in.Value, err, organizationID)
		}
		bs[i] = New(in.Type, value, organizationID, owner)
	}

	// Proactive pre-check for friendly errors; the constraint still backs it.
	if err := s.ValidateUniqueness(ctx, inputs, organizationID, NoOwner()); err != nil {
		return err
	}

	if err := s.repo.CreateMany(ctx, bs); err != nil {
		if apperror.IsUniqueViolation(err) {
			return s.explainConflict(ctx, inputs, organizationID, NoOwner(), err)
		}
		return apperror.NewDatabase("Failed to create barcodes", err).
			WithLabel(Label).
			WithDetail("count", len(inputs)).
			WithDetail("organizationId", organizationID)
	}

	s.record(ctx, auditCreated, owner.ID, organizationID, userID, bs)
	return nil
}

// UpdateParams are the inputs for a single barcode update. Only supplied
// fields are changed; a value change must be paired with its type so the
// new value can be normalized and validated.
type UpdateParams struct {
	ID             id.ID
	OrganizationID id.ID
	UserID         string
	Type           *Type
	Value          *string
}

// Update modifies type and/or value of one barcode.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*Barcode, error) {
	if p.Type == nil && p.Value == nil {
		return nil, apperror.NewValidation("nothing to update").WithLabel(Label)
	}
	// An unvalidated value must never reach the store.
	if p.Value != nil && p.Type == nil {
		return nil, apperror.NewValidation("Barcode type is required when changing the value").
			WithLabel(Label).
			WithDetail("id", p.ID)
	}

	var value *string
	if p.Value != nil {
		v, err := prepare(*p.Type, *p.Value)
		if err != nil {
			return nil, apperror.NewValidation(err.Error()).
				WithLabel(Label).
				WithDetail("id", p.ID).
				WithDetail("value", *p.Value)
		}
		value = &v
	}

	updated, err := s.repo.Update(ctx, UpdateFields{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Type:           p.Type,
		Value:          value,
	})
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, s.explainUpdateConflict(ctx, p, err)
		}
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewDatabase("Failed to update barcode", err).
			WithLabel(Label).
			WithDetail("id", p.ID)
	}

	s.record(ctx, auditUpdated, updated.ID, p.OrganizationID, p.UserID, updated)
	return updated, nil
}

// explainUpdateConflict re-checks uniqueness for a rejected single update,
// excluding the record's own current owner so it is not flagged as
// conflicting with itself.
func (s *Service) explainUpdateConflict(ctx context.Context, p UpdateParams, cause error) error {
	if p.Value == nil || p.Type == nil {
		return apperror.NewUniqueViolation(Label, "Barcode already in use").WithCause(cause)
	}
	exclude := NoOwner()
	if cur, err := s.repo.GetByID(ctx, p.ID, p.OrganizationID); err == nil && cur != nil {
		exclude = cur.Owner()
	}
	return s.explainConflict(ctx, []Input{{Type: *p.Type, Value: *p.Value}}, p.OrganizationID, exclude, cause)
}

// Reconcile brings the persisted barcode set of an owner to the desired
// state: entries with an id update the matching record, entries without an
// id create new records, and existing records absent from the list are
// deleted. The resulting operations are applied as one atomic transaction.
func (s *Service) Reconcile(ctx context.Context, inputs []Input, owner Owner, organizationID id.ID, userID string) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	prepared := make([]string, len(inputs))
	for i, in := range inputs {
		value, err := prepare(in.Type, in.Value)
		if err != nil {
			return invalidEntryErr(in.Value, err, organizationID)
		}
		prepared[i] = value
	}

	// Exclude the owner's own barcodes from conflicting with themselves.
	if err := s.ValidateUniqueness(ctx, inputs, organizationID, owner); err != nil {
		return err
	}

	existing, err := s.repo.ListForOwner(ctx, owner, organizationID)
	if err != nil {
		return apperror.NewDatabase("Failed to load existing barcodes", err).
			WithLabel(Label).
			WithDetail("owner", string(owner.Kind)).
			WithDetail("ownerId", owner.ID)
	}

	ops := planReconcile(inputs, prepared, existing, owner, organizationID)
	if len(ops) == 0 {
		return nil
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.ApplyOps(ctx, ops)
	})
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return s.explainConflict(ctx, inputs, organizationID, owner, err)
		}
		return apperror.NewDatabase("Failed to update barcodes", err).
			WithLabel(Label).
			WithDetail("owner", string(owner.Kind)).
			WithDetail("ownerId", owner.ID)
	}

	s.record(ctx, auditReconciled, owner.ID, organizationID, userID, map[string]int{
		"submitted": len(inputs),
		"existing":  len(existing),
	})
	return nil
}

// planReconcile computes the unit of work from desired versus current state.
// prepared[i] is the normalized value of inputs[i].
func planReconcile(inputs []Input, prepared []string, existing []Barcode, owner Owner, organizationID id.ID) []Op {
	submitted := make(map[id.ID]struct{}, len(inputs))
	var ops []Op

	for i, in := range inputs {
		if in.ID != nil {
			submitted[*in.ID] = struct{}{}
			ops = append(ops, OpUpdate{
				ID:             *in.ID,
				OrganizationID: organizationID,
				Type:           in.Type,
				Value:          prepared[i],
			})
		} else {
			ops = append(ops, OpCreate{Barcode: New(in.Type, prepared[i], organizationID, owner)})
		}
	}

	var toDelete []id.ID
	for _, ex := range existing {
		if _, keep := submitted[ex.ID]; !keep {
			toDelete = append(toDelete, ex.ID)
		}
	}
	if len(toDelete) > 0 {
		ops = append(ops, OpDeleteMany{IDs: toDelete, OrganizationID: organizationID})
	}

	return ops
}

// Replace overwrites the owner's barcode set: delete everything, then bulk
// create the new list. An empty list means pure deletion.
//
// Unlike Reconcile this is not one transaction; between the delete and the
// create a concurrent reader can observe the owner with zero barcodes.
// Accepted tradeoff for the coarse full-overwrite path.
func (s *Service) Replace(ctx context.Context, inputs []Input, owner Owner, organizationID id.ID, userID string) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if err := s.DeleteForOwner(ctx, owner, organizationID); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return nil
	}
	if err := s.CreateBatch(ctx, inputs, organizationID, userID, owner); err != nil {
		return err
	}
	s.record(ctx, auditReplaced, owner.ID, organizationID, userID, map[string]int{"count": len(inputs)})
	return nil
}

// Delete removes a single barcode, scoped to the organization.
func (s *Service) Delete(ctx context.Context, barcodeID, organizationID id.ID, userID string) error {
	if err := s.repo.DeleteByID(ctx, barcodeID, organizationID); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewDatabase("Failed to delete barcode", err).
			WithLabel(Label).
			WithDetail("id", barcodeID)
	}
	s.record(ctx, auditDeleted, barcodeID, organizationID, userID, nil)
	return nil
}

// DeleteForOwner removes all barcodes of an asset or kit.
func (s *Service) DeleteForOwner(ctx context.Context, owner Owner, organizationID id.ID) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if err := s.repo.DeleteForOwner(ctx, owner, organizationID); err != nil {
		return apperror.NewDatabase("Failed to delete barcodes", err).
			WithLabel(Label).
			WithDetail("owner", string(owner.Kind)).
			WithDetail("ownerId", owner.ID)
	}
	return nil
}

// GetByID fetches a single barcode with its owner name resolved.
func (s *Service) GetByID(ctx context.Context, barcodeID, organizationID id.ID) (*Linked, error) {
	found, err := s.repo.GetByID(ctx, barcodeID, organizationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewDatabase("Failed to get barcode", err).
			WithLabel(Label).
			WithDetail("barcodeId", barcodeID)
	}
	return found, nil
}

// GetByValue fetches a barcode by scanned value within the organization.
// The raw value is tried first so case-preserving ExternalQR lookups hit,
// then the uppercase form, since the caller does not know the type ahead
// of the lookup. Returns nil when no barcode matches.
func (s *Service) GetByValue(ctx context.Context, value string, organizationID id.ID) (*Linked, error) {
	found, err := s.repo.FindByValue(ctx, value, organizationID)
	if err != nil {
		return nil, apperror.NewDatabase("Failed to find barcode", err).
			WithLabel(Label).
			WithDetail("value", value)
	}
	if found != nil {
		return found, nil
	}

	upper := Normalize(TypeCode128, value)
	if upper == value {
		return nil, nil
	}
	found, err = s.repo.FindByValue(ctx, upper, organizationID)
	if err != nil {
		return nil, apperror.NewDatabase("Failed to find barcode", err).
			WithLabel(Label).
			WithDetail("value", upper)
	}
	return found, nil
}

// ListForOwner returns all barcodes of an asset or kit, ordered by
// creation time ascending.
func (s *Service) ListForOwner(ctx context.Context, owner Owner, organizationID id.ID) ([]Barcode, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	bs, err := s.repo.ListForOwner(ctx, owner, organizationID)
	if err != nil {
		return nil, apperror.NewDatabase("Failed to list barcodes", err).
			WithLabel(Label).
			WithDetail("owner", string(owner.Kind)).
			WithDetail("ownerId", owner.ID)
	}
	return bs, nil
}

// Attach links an existing (orphaned) barcode row to a new owner.
// Used by the import pipeline to reuse orphaned values instead of
// recreating them.
func (s *Service) Attach(ctx context.Context, barcodeID id.ID, owner Owner, organizationID id.ID) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if err := s.repo.Relink(ctx, barcodeID, owner, organizationID); err != nil {
		return apperror.NewDatabase("Failed to relink barcode", err).
			WithLabel(Label).
			WithDetail("id", barcodeID)
	}
	return nil
}

// ValidateUniqueness checks a submitted batch for conflicts and returns a
// field-indexed error map covering both kinds:
//
//   - cross-entity: a normalized value already exists in the store for a
//     different owner within the organization;
//   - intra-batch: two or more entries normalize to the same value (all
//     occurrences are flagged, not just the second).
//
// When editing an existing entity, pass its owner as exclude so its own
// barcodes are not reported as conflicting with themselves. One store
// query is issued regardless of batch size.
func (s *Service) ValidateUniqueness(ctx context.Context, inputs []Input, organizationID id.ID, exclude Owner) error {
	if len(inputs) == 0 {
		return nil
	}

	normalized := make([]string, len(inputs))
	firstSeen := make(map[string]int, len(inputs))
	dup := make(map[int]bool)
	var values []string

	for i, in := range inputs {
		v := Normalize(in.Type, in.Value)
		normalized[i] = v
		if first, seen := firstSeen[v]; seen {
			dup[first] = true
			dup[i] = true
		} else {
			firstSeen[v] = i
			values = append(values, v)
		}
	}

	rows, err := s.repo.FindLinkedByValues(ctx, values, organizationID)
	if err != nil {
		return apperror.NewDatabase("Failed to validate barcode uniqueness", err).
			WithLabel(Label).
			WithDetail("organizationId", organizationID)
	}

	existing := make(map[string]*Linked, len(rows))
	for i := range rows {
		row := &rows[i]
		if !exclude.IsZero() && row.Owner() == exclude {
			continue
		}
		existing[row.Value] = row
	}

	verrs := make(map[string]string)
	for i := range inputs {
		field := fmt.Sprintf("barcodes[%d].value", i)
		if row, ok := existing[normalized[i]]; ok {
			verrs[field] = fmt.Sprintf("This barcode value is already used by \"%s\"", row.OwnerName())
		} else if dup[i] {
			verrs[field] = msgDuplicatedInForm
		}
	}

	if len(verrs) > 0 {
		return apperror.NewUniqueViolation(Label, msgAlreadyInUse).
			WithValidationErrors(verrs)
	}
	return nil
}

// explainConflict is the reactive half of the two-phase conflict strategy:
// the fast path trusts the store's constraint, and after a rejection the
// uniqueness checker is re-run only to build a better error message, never
// to decide success or failure. When the checker comes back clean the
// original typed conflict is surfaced generically.
func (s *Service) explainConflict(ctx context.Context, inputs []Input, organizationID id.ID, exclude Owner, cause error) error {
	if err := s.ValidateUniqueness(ctx, inputs, organizationID, exclude); err != nil {
		if apperror.HasValidationErrors(err) {
			return err
		}
	}
	return apperror.NewUniqueViolation(Label, "Barcode already in use").WithCause(cause)
}

// invalidEntryErr names the offending raw value so batch callers can tell
// which entry failed.
func invalidEntryErr(rawValue string, err error, organizationID id.ID) error {
	return apperror.NewValidation(fmt.Sprintf("Invalid barcode \"%s\": %s", rawValue, err.Error())).
		WithLabel(Label).
		WithDetail("value", rawValue).
		WithDetail("organizationId", organizationID)
}

// record writes an audit entry when an auditor is wired. Best-effort by
// contract of Auditor.
func (s *Service) record(ctx context.Context, action string, entityID, organizationID id.ID, userID string, changes any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, entityID, organizationID, userID, changes)
}
