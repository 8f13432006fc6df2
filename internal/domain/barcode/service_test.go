package barcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

type fakeRepo struct {
	created       []*Barcode
	createdMany   [][]*Barcode
	applied       [][]Op
	deletedByID   []id.ID
	deletedOwners []Owner

	existing []Barcode // ListForOwner result
	linked   []Linked  // FindLinkedByValues result
	byValue  map[string]*Linked
	byID     map[id.ID]*Linked

	createErr     error
	createManyErr error
	applyErr      error
	updateResult  *Barcode
	updateErr     error

	valueLookups     []string
	linkedValueCalls [][]string
}

func (f *fakeRepo) Create(_ context.Context, b *Barcode) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, b)
	return nil
}

func (f *fakeRepo) CreateMany(_ context.Context, bs []*Barcode) error {
	if f.createManyErr != nil {
		return f.createManyErr
	}
	f.createdMany = append(f.createdMany, bs)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, _ UpdateFields) (*Barcode, error) {
	return f.updateResult, f.updateErr
}

func (f *fakeRepo) ApplyOps(_ context.Context, ops []Op) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, ops)
	return nil
}

func (f *fakeRepo) DeleteByID(_ context.Context, barcodeID, _ id.ID) error {
	f.deletedByID = append(f.deletedByID, barcodeID)
	return nil
}

func (f *fakeRepo) DeleteForOwner(_ context.Context, owner Owner, _ id.ID) error {
	f.deletedOwners = append(f.deletedOwners, owner)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, barcodeID, _ id.ID) (*Linked, error) {
	if l, ok := f.byID[barcodeID]; ok {
		return l, nil
	}
	return nil, apperror.NewNotFound("barcode", barcodeID)
}

func (f *fakeRepo) FindByValue(_ context.Context, value string, _ id.ID) (*Linked, error) {
	f.valueLookups = append(f.valueLookups, value)
	return f.byValue[value], nil
}

func (f *fakeRepo) FindLinkedByValues(_ context.Context, values []string, _ id.ID) ([]Linked, error) {
	f.linkedValueCalls = append(f.linkedValueCalls, values)
	return f.linked, nil
}

func (f *fakeRepo) ListForOwner(_ context.Context, _ Owner, _ id.ID) ([]Barcode, error) {
	return f.existing, nil
}

func (f *fakeRepo) Relink(_ context.Context, _ id.ID, _ Owner, _ id.ID) error {
	return nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestService(repo *fakeRepo) (*Service, *fakeTxManager) {
	txm := &fakeTxManager{}
	return NewService(repo, txm, nil), txm
}

func strptr(s string) *string { return &s }
func typptr(t Type) *Type     { return &t }

func linkedToAsset(value, title string) Linked {
	assetID := id.New()
	l := Linked{AssetTitle: &title}
	l.ID = id.New()
	l.Value = value
	l.Type = TypeCode128
	l.AssetID = &assetID
	return l
}

func TestCreateNormalizesAndStores(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	b, err := svc.Create(context.Background(), CreateParams{
		Type:           TypeCode128,
		Value:          "abc123",
		OrganizationID: id.New(),
		UserID:         "user-1",
		Owner:          AssetOwner(id.New()),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if b.Value != "ABC123" {
		t.Errorf("stored value = %q, want uppercase", b.Value)
	}
	if len(repo.created) != 1 {
		t.Fatalf("Create calls = %d, want 1", len(repo.created))
	}
	if repo.created[0].AssetID == nil || repo.created[0].KitID != nil {
		t.Error("owner links not set for asset owner")
	}
}

func TestCreateInvalidValueNeverHitsStore(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateParams{
		Type:           TypeCode128,
		Value:          "AB",
		OrganizationID: id.New(),
		Owner:          AssetOwner(id.New()),
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("Create(short value) err = %v, want validation error", err)
	}
	ae, _ := apperror.AsAppError(err)
	if ae.Message != "Code128 barcode must be at least 4 characters" {
		t.Errorf("message = %q", ae.Message)
	}
	if len(repo.created) != 0 {
		t.Error("store was called despite invalid input")
	}
}

func TestCreateConflictEnrichedFromChecker(t *testing.T) {
	repo := &fakeRepo{
		createErr: apperror.NewUniqueViolation(Label, "duplicate key"),
		linked:    []Linked{linkedToAsset("ABC123", "Existing Asset")},
	}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateParams{
		Type:           TypeCode128,
		Value:          "abc123",
		OrganizationID: id.New(),
		Owner:          AssetOwner(id.New()),
	})
	if !apperror.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}
	ae, _ := apperror.AsAppError(err)
	if ae.Message != msgAlreadyInUse {
		t.Errorf("message = %q, want %q", ae.Message, msgAlreadyInUse)
	}
	want := `This barcode value is already used by "Existing Asset"`
	if got := ae.ValidationErrors["barcodes[0].value"]; got != want {
		t.Errorf("field error = %q, want %q", got, want)
	}
}

func TestCreateConflictFallsBackWhenCheckerClean(t *testing.T) {
	repo := &fakeRepo{
		createErr: apperror.NewUniqueViolation(Label, "duplicate key"),
	}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateParams{
		Type:           TypeCode128,
		Value:          "abc123",
		OrganizationID: id.New(),
		Owner:          AssetOwner(id.New()),
	})
	if !apperror.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}
	ae, _ := apperror.AsAppError(err)
	if ae.Message != "Barcode already in use" {
		t.Errorf("message = %q, want generic fallback", ae.Message)
	}
	if ae.HasValidationErrors() {
		t.Error("fallback error should carry no field map")
	}
}

func TestCreateBatchEmptyIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	if err := svc.CreateBatch(context.Background(), nil, id.New(), "user-1", AssetOwner(id.New())); err != nil {
		t.Fatalf("CreateBatch(empty) = %v", err)
	}
	if len(repo.createdMany) != 0 || len(repo.linkedValueCalls) != 0 {
		t.Error("empty batch reached the store")
	}
}

func TestCreateBatchInvalidEntryFailsBeforeMutation(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	err := svc.CreateBatch(context.Background(), []Input{
		{Type: TypeCode128, Value: "GOOD1234"},
		{Type: TypeCode128, Value: "AB"},
	}, id.New(), "user-1", AssetOwner(id.New()))
	if !apperror.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	ae, _ := apperror.AsAppError(err)
	if !strings.Contains(ae.Message, `Invalid barcode "AB":`) {
		t.Errorf("message = %q, want offending value named", ae.Message)
	}
	if len(repo.createdMany) != 0 {
		t.Error("store mutated despite invalid entry")
	}
}

func TestCreateBatchFlagsBothDuplicateOccurrences(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	err := svc.CreateBatch(context.Background(), []Input{
		{Type: TypeCode128, Value: "SAME1234"},
		{Type: TypeCode128, Value: "same1234"}, // normalizes to the same value
		{Type: TypeCode128, Value: "OTHER567"},
	}, id.New(), "user-1", AssetOwner(id.New()))
	if !apperror.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}
	ae, _ := apperror.AsAppError(err)
	if ae.ValidationErrors["barcodes[0].value"] != msgDuplicatedInForm {
		t.Errorf("first occurrence not flagged: %v", ae.ValidationErrors)
	}
	if ae.ValidationErrors["barcodes[1].value"] != msgDuplicatedInForm {
		t.Errorf("second occurrence not flagged: %v", ae.ValidationErrors)
	}
	if _, ok := ae.ValidationErrors["barcodes[2].value"]; ok {
		t.Error("clean entry was flagged")
	}
	if len(repo.createdMany) != 0 {
		t.Error("store mutated despite duplicates")
	}
}

func TestValidateUniquenessIssuesOneQuery(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	inputs := []Input{
		{Type: TypeCode128, Value: "AAAA1111"},
		{Type: TypeCode39, Value: "BBBB2222"},
		{Type: TypeEAN13, Value: "9780201379624"},
	}
	if err := svc.ValidateUniqueness(context.Background(), inputs, id.New(), NoOwner()); err != nil {
		t.Fatalf("ValidateUniqueness() = %v", err)
	}
	if len(repo.linkedValueCalls) != 1 {
		t.Fatalf("store queries = %d, want 1", len(repo.linkedValueCalls))
	}
	if len(repo.linkedValueCalls[0]) != 3 {
		t.Errorf("queried values = %v, want all three", repo.linkedValueCalls[0])
	}
}

// A value that conflicts with the store and is also duplicated in the form
// reports the store conflict; it is the more actionable of the two.
func TestValidateUniquenessStoreConflictWins(t *testing.T) {
	repo := &fakeRepo{
		linked: []Linked{linkedToAsset("TAKEN123", "Existing Asset")},
	}
	svc, _ := newTestService(repo)

	err := svc.ValidateUniqueness(context.Background(), []Input{
		{Type: TypeCode128, Value: "TAKEN123"},
		{Type: TypeCode128, Value: "taken123"},
	}, id.New(), NoOwner())
	if !apperror.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}
	ae, _ := apperror.AsAppError(err)
	want := `This barcode value is already used by "Existing Asset"`
	for _, field := range []string{"barcodes[0].value", "barcodes[1].value"} {
		if got := ae.ValidationErrors[field]; got != want {
			t.Errorf("%s = %q, want store conflict message", field, got)
		}
	}
}

func TestValidateUniquenessExcludesEditedOwner(t *testing.T) {
	ownerID := id.New()
	row := Linked{}
	row.ID = id.New()
	row.Value = "MINE1234"
	row.Type = TypeCode128
	row.AssetID = &ownerID

	repo := &fakeRepo{linked: []Linked{row}}
	svc, _ := newTestService(repo)

	err := svc.ValidateUniqueness(context.Background(), []Input{
		{Type: TypeCode128, Value: "MINE1234"},
	}, id.New(), AssetOwner(ownerID))
	if err != nil {
		t.Fatalf("own barcode reported as conflict: %v", err)
	}
}

func TestValidateUniquenessKitConflictUsesKitName(t *testing.T) {
	kitID := id.New()
	name := "Camera Kit"
	row := Linked{KitName: &name}
	row.ID = id.New()
	row.Value = "KITCODE1"
	row.Type = TypeCode128
	row.KitID = &kitID

	repo := &fakeRepo{linked: []Linked{row}}
	svc, _ := newTestService(repo)

	err := svc.ValidateUniqueness(context.Background(), []Input{
		{Type: TypeCode128, Value: "KITCODE1"},
	}, id.New(), NoOwner())
	ae, _ := apperror.AsAppError(err)
	if ae == nil {
		t.Fatal("expected conflict error")
	}
	if got := ae.ValidationErrors["barcodes[0].value"]; got != `This barcode value is already used by "Camera Kit"` {
		t.Errorf("field error = %q", got)
	}
}

// Owner names go into the conflict message verbatim; a name with a quote
// in it must not come out Go-escaped.
func TestValidateUniquenessConflictMessageKeepsRawOwnerName(t *testing.T) {
	repo := &fakeRepo{
		linked: []Linked{linkedToAsset("MON12345", `5" Monitor`)},
	}
	svc, _ := newTestService(repo)

	err := svc.ValidateUniqueness(context.Background(), []Input{
		{Type: TypeCode128, Value: "MON12345"},
	}, id.New(), NoOwner())
	ae, _ := apperror.AsAppError(err)
	if ae == nil {
		t.Fatal("expected conflict error")
	}
	want := `This barcode value is already used by "5" Monitor"`
	if got := ae.ValidationErrors["barcodes[0].value"]; got != want {
		t.Errorf("field error = %q, want %q", got, want)
	}
}

func TestReconcilePlansUpdateCreateDelete(t *testing.T) {
	orgID := id.New()
	ownerID := id.New()
	keep := Barcode{}
	keep.ID = id.New()
	stale := Barcode{}
	stale.ID = id.New()

	repo := &fakeRepo{existing: []Barcode{keep, stale}}
	svc, txm := newTestService(repo)

	keepID := keep.ID
	err := svc.Reconcile(context.Background(), []Input{
		{ID: &keepID, Type: TypeCode128, Value: "updated1"},
		{Type: TypeCode39, Value: "FRESH123"},
	}, AssetOwner(ownerID), orgID, "user-1")
	if err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if txm.calls != 1 {
		t.Errorf("transactions = %d, want 1", txm.calls)
	}
	if len(repo.applied) != 1 {
		t.Fatalf("ApplyOps calls = %d, want 1", len(repo.applied))
	}

	ops := repo.applied[0]
	if len(ops) != 3 {
		t.Fatalf("ops = %d, want update+create+delete", len(ops))
	}
	up, ok := ops[0].(OpUpdate)
	if !ok || up.ID != keep.ID || up.Value != "UPDATED1" {
		t.Errorf("ops[0] = %#v, want update of kept barcode with normalized value", ops[0])
	}
	cr, ok := ops[1].(OpCreate)
	if !ok || cr.Barcode.Value != "FRESH123" || cr.Barcode.AssetID == nil || *cr.Barcode.AssetID != ownerID {
		t.Errorf("ops[1] = %#v, want create linked to owner", ops[1])
	}
	del, ok := ops[2].(OpDeleteMany)
	if !ok || len(del.IDs) != 1 || del.IDs[0] != stale.ID {
		t.Errorf("ops[2] = %#v, want delete of stale barcode", ops[2])
	}
}

func TestReconcileNoDeleteWhenAllSubmitted(t *testing.T) {
	existing := Barcode{}
	existing.ID = id.New()
	repo := &fakeRepo{existing: []Barcode{existing}}
	svc, _ := newTestService(repo)

	exID := existing.ID
	err := svc.Reconcile(context.Background(), []Input{
		{ID: &exID, Type: TypeCode128, Value: "KEPT1234"},
		{Type: TypeCode128, Value: "ADDED123"},
	}, KitOwner(id.New()), id.New(), "user-1")
	if err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	for _, op := range repo.applied[0] {
		if _, isDelete := op.(OpDeleteMany); isDelete {
			t.Fatal("unexpected delete op when every existing barcode was submitted")
		}
	}
}

func TestReconcileStoreRejectionWrapped(t *testing.T) {
	repo := &fakeRepo{applyErr: errors.New("connection reset")}
	svc, _ := newTestService(repo)

	err := svc.Reconcile(context.Background(), []Input{
		{Type: TypeCode128, Value: "ABCD1234"},
	}, AssetOwner(id.New()), id.New(), "user-1")
	ae, _ := apperror.AsAppError(err)
	if ae == nil || ae.Message != "Failed to update barcodes" {
		t.Fatalf("err = %v, want wrapped update failure", err)
	}
}

func TestUpdateValueRequiresType(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.Update(context.Background(), UpdateParams{
		ID:             id.New(),
		OrganizationID: id.New(),
		Value:          strptr("NEWVAL12"),
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	ae, _ := apperror.AsAppError(err)
	if ae.Message != "Barcode type is required when changing the value" {
		t.Errorf("message = %q", ae.Message)
	}
}

func TestUpdateNormalizesValue(t *testing.T) {
	updated := &Barcode{}
	updated.ID = id.New()
	repo := &fakeRepo{updateResult: updated}
	svc, _ := newTestService(repo)

	got, err := svc.Update(context.Background(), UpdateParams{
		ID:             updated.ID,
		OrganizationID: id.New(),
		Type:           typptr(TypeCode128),
		Value:          strptr("lower123"),
	})
	if err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if got != updated {
		t.Error("updated record not returned")
	}
}

func TestReplaceEmptyListOnlyDeletes(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)
	owner := AssetOwner(id.New())

	if err := svc.Replace(context.Background(), nil, owner, id.New(), "user-1"); err != nil {
		t.Fatalf("Replace(empty) = %v", err)
	}
	if len(repo.deletedOwners) != 1 || repo.deletedOwners[0] != owner {
		t.Errorf("DeleteForOwner calls = %v, want one for owner", repo.deletedOwners)
	}
	if len(repo.createdMany) != 0 {
		t.Error("creation attempted for empty replacement list")
	}
}

func TestReplaceDeletesThenCreates(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)
	owner := KitOwner(id.New())

	err := svc.Replace(context.Background(), []Input{
		{Type: TypeCode128, Value: "NEW12345"},
	}, owner, id.New(), "user-1")
	if err != nil {
		t.Fatalf("Replace() = %v", err)
	}
	if len(repo.deletedOwners) != 1 {
		t.Error("existing barcodes not deleted first")
	}
	if len(repo.createdMany) != 1 || len(repo.createdMany[0]) != 1 {
		t.Fatalf("CreateMany calls = %v", repo.createdMany)
	}
	if repo.createdMany[0][0].KitID == nil {
		t.Error("replacement barcode not linked to kit owner")
	}
}

func TestGetByValueTriesExactThenUppercase(t *testing.T) {
	row := linkedToAsset("MIXED123", "Some Asset")
	repo := &fakeRepo{byValue: map[string]*Linked{"MIXED123": &row}}
	svc, _ := newTestService(repo)

	got, err := svc.GetByValue(context.Background(), "mixed123", id.New())
	if err != nil {
		t.Fatalf("GetByValue() = %v", err)
	}
	if got == nil || got.Value != "MIXED123" {
		t.Fatalf("GetByValue() = %v, want uppercase match", got)
	}
	if len(repo.valueLookups) != 2 || repo.valueLookups[0] != "mixed123" || repo.valueLookups[1] != "MIXED123" {
		t.Errorf("lookups = %v, want exact then uppercase", repo.valueLookups)
	}
}

func TestGetByValueMissingReturnsNil(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	got, err := svc.GetByValue(context.Background(), "NOPE1234", id.New())
	if err != nil {
		t.Fatalf("GetByValue() = %v", err)
	}
	if got != nil {
		t.Errorf("GetByValue(missing) = %v, want nil", got)
	}
	// Already uppercase, one lookup suffices.
	if len(repo.valueLookups) != 1 {
		t.Errorf("lookups = %v, want single query", repo.valueLookups)
	}
}

func TestOwnerValidation(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateParams{
		Type:           TypeCode128,
		Value:          "ABCD1234",
		OrganizationID: id.New(),
		Owner:          NoOwner(),
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("Create(no owner) err = %v, want validation error", err)
	}
}

func TestOwnerNameFallback(t *testing.T) {
	l := Linked{}
	l.Value = "ORPHAN12"
	if got := l.OwnerName(); got != "Unknown item" {
		t.Errorf("OwnerName() = %q, want fallback", got)
	}
}
