package barcode

import (
	"context"
	"strings"
	"testing"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

func TestParseImportRows(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	rows := []ImportRow{
		{
			"key":                "asset-1",
			"title":              "Test Asset 1",
			"description":        "Description 1",
			"barcode_Code128":    "ABCD1234",
			"barcode_Code39":     "ABC123",
			"barcode_DataMatrix": "WXYZ5678",
		},
		{
			"key":                "asset-2",
			"title":              "Test Asset 2",
			"barcode_Code128":    "EFGH5678,IJKL9012",
			"barcode_Code39":     "DEF456",
			"barcode_DataMatrix": "",
		},
		{
			"key":   "asset-3",
			"title": "Test Asset 3",
		},
	}

	entries, err := svc.ParseImportRows(context.Background(), rows, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (rows without barcodes dropped)", len(entries))
	}

	first := entries[0]
	if first.Key != "asset-1" || first.Title != "Test Asset 1" {
		t.Errorf("entry identity = %q/%q", first.Key, first.Title)
	}
	wantFirst := []ImportBarcode{
		{Type: TypeCode128, Value: "ABCD1234"},
		{Type: TypeCode39, Value: "ABC123"},
		{Type: TypeDataMatrix, Value: "WXYZ5678"},
	}
	assertImportBarcodes(t, first.Barcodes, wantFirst)

	wantSecond := []ImportBarcode{
		{Type: TypeCode128, Value: "EFGH5678"},
		{Type: TypeCode128, Value: "IJKL9012"},
		{Type: TypeCode39, Value: "DEF456"},
	}
	assertImportBarcodes(t, entries[1].Barcodes, wantSecond)
}

func TestParseImportRowsEmptyInput(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	entries, err := svc.ParseImportRows(context.Background(), nil, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows(nil) = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
	if len(repo.linkedValueCalls) != 0 {
		t.Error("store queried for an empty import")
	}
}

func TestParseImportRowsInvalidValue(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "AB"},
	}, id.New())
	if !apperror.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	ae, _ := apperror.AsAppError(err)
	want := `Invalid Code128 barcode "AB" for asset "Test Asset 1"`
	if ae.Message != want {
		t.Errorf("message = %q, want %q", ae.Message, want)
	}
}

// Titles are interpolated into the message verbatim, even when they carry
// quotes of their own.
func TestParseImportRowsInvalidValueKeepsRawTitle(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": `5" Monitor`, "barcode_Code128": "AB"},
	}, id.New())
	ae, _ := apperror.AsAppError(err)
	if ae == nil {
		t.Fatal("expected validation error")
	}
	want := `Invalid Code128 barcode "AB" for asset "5" Monitor"`
	if ae.Message != want {
		t.Errorf("message = %q, want %q", ae.Message, want)
	}
}

func TestParseImportRowsInvalidCharacters(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "ABC\x00123"},
	}, id.New())
	ae, _ := apperror.AsAppError(err)
	if ae == nil || !strings.HasPrefix(ae.Message, "Invalid Code128 barcode") {
		t.Fatalf("err = %v, want invalid barcode error", err)
	}
}

func TestParseImportRowsDuplicateAcrossRows(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "DUPLICATE123"},
		{"key": "asset-2", "title": "Test Asset 2", "barcode_Code128": "DUPLICATE123"},
	}, id.New())
	ae, _ := apperror.AsAppError(err)
	if ae == nil || ae.Message != "Some barcodes appear multiple times in the import data" {
		t.Fatalf("err = %v, want duplicate import error", err)
	}
	if len(repo.linkedValueCalls) != 0 {
		t.Error("store queried despite intra-import duplicates")
	}

	dups, ok := ae.Details["duplicates"].([]ImportConflict)
	if !ok || len(dups) != 1 {
		t.Fatalf("duplicates detail = %+v, want one conflict", ae.Details["duplicates"])
	}
	if dups[0].Value != "DUPLICATE123" || len(dups[0].Occurrences) != 2 {
		t.Fatalf("conflict = %+v, want both occurrences of DUPLICATE123", dups[0])
	}
	wantOcc := []ImportOccurrence{
		{Key: "asset-1", Title: "Test Asset 1", Type: TypeCode128},
		{Key: "asset-2", Title: "Test Asset 2", Type: TypeCode128},
	}
	for i, want := range wantOcc {
		if dups[0].Occurrences[i] != want {
			t.Errorf("occurrence[%d] = %+v, want %+v", i, dups[0].Occurrences[i], want)
		}
	}
}

func TestParseImportRowsLinkedValueRejected(t *testing.T) {
	repo := &fakeRepo{
		linked: []Linked{linkedToAsset("LINKED123", "Existing Asset")},
	}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "LINKED123"},
	}, id.New())
	ae, _ := apperror.AsAppError(err)
	if ae == nil || ae.Message != "Some barcodes are already linked to other assets or kits in your organization" {
		t.Fatalf("err = %v, want linked conflict error", err)
	}

	conflicts, ok := ae.Details["conflicting"].([]ImportConflict)
	if !ok || len(conflicts) != 1 {
		t.Fatalf("conflicting detail = %+v, want one conflict", ae.Details["conflicting"])
	}
	c := conflicts[0]
	if c.Value != "LINKED123" || c.LinkedTo != "Existing Asset" {
		t.Errorf("conflict = %+v, want LINKED123 held by Existing Asset", c)
	}
	if len(c.Occurrences) != 1 || c.Occurrences[0] != (ImportOccurrence{Key: "asset-1", Title: "Test Asset 1", Type: TypeCode128}) {
		t.Errorf("occurrences = %+v, want the importing row identified", c.Occurrences)
	}
}

func TestParseImportRowsLinkedToKitRejected(t *testing.T) {
	kitID := id.New()
	name := "Existing Kit"
	row := Linked{KitName: &name}
	row.ID = id.New()
	row.Value = "LINKED123"
	row.Type = TypeCode128
	row.KitID = &kitID

	repo := &fakeRepo{linked: []Linked{row}}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "LINKED123"},
	}, id.New())
	ae, _ := apperror.AsAppError(err)
	if ae == nil || ae.Message != "Some barcodes are already linked to other assets or kits in your organization" {
		t.Fatalf("err = %v, want linked conflict error", err)
	}
}

func TestParseImportRowsOrphanReused(t *testing.T) {
	orphan := Linked{}
	orphan.ID = id.New()
	orphan.Value = "ORPHAN12"
	orphan.Type = TypeCode128

	repo := &fakeRepo{linked: []Linked{orphan}}
	svc, _ := newTestService(repo)

	entries, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "ORPHAN12,FRESH123"},
	}, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	bs := entries[0].Barcodes
	if len(bs) != 2 {
		t.Fatalf("barcodes = %d, want 2", len(bs))
	}
	if bs[0].ExistingID == nil || *bs[0].ExistingID != orphan.ID {
		t.Errorf("orphaned value not marked for reuse: %+v", bs[0])
	}
	if bs[1].ExistingID != nil {
		t.Errorf("fresh value marked for reuse: %+v", bs[1])
	}
}

func TestParseImportRowsCommaSplitting(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	entries, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "ABC123, DEF456 , GHI789"},
	}, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	assertImportBarcodes(t, entries[0].Barcodes, []ImportBarcode{
		{Type: TypeCode128, Value: "ABC123"},
		{Type: TypeCode128, Value: "DEF456"},
		{Type: TypeCode128, Value: "GHI789"},
	})
}

func TestParseImportRowsNormalizesValues(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	entries, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "Test Asset 1", "barcode_Code128": "abc123", "barcode_Code39": "def456"},
	}, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	assertImportBarcodes(t, entries[0].Barcodes, []ImportBarcode{
		{Type: TypeCode128, Value: "ABC123"},
		{Type: TypeCode39, Value: "DEF456"},
	})
}

func TestParseImportRowsDropsEmptyPieces(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	entries, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{
			"key":                "asset-1",
			"title":              "Test Asset 1",
			"barcode_Code128":    "ABC123,,  ,DEF456",
			"barcode_Code39":     "",
			"barcode_DataMatrix": "   ",
		},
	}, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	assertImportBarcodes(t, entries[0].Barcodes, []ImportBarcode{
		{Type: TypeCode128, Value: "ABC123"},
		{Type: TypeCode128, Value: "DEF456"},
	})
}

func TestParseImportRowsSingleStoreQuery(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.ParseImportRows(context.Background(), []ImportRow{
		{"key": "asset-1", "title": "A", "barcode_Code128": "AAAA1111,BBBB2222"},
		{"key": "asset-2", "title": "B", "barcode_Code39": "CCCC3333"},
	}, id.New())
	if err != nil {
		t.Fatalf("ParseImportRows() = %v", err)
	}
	if len(repo.linkedValueCalls) != 1 {
		t.Fatalf("store queries = %d, want 1", len(repo.linkedValueCalls))
	}
	if got := repo.linkedValueCalls[0]; len(got) != 3 {
		t.Errorf("queried values = %v, want all three", got)
	}
}

func assertImportBarcodes(t *testing.T, got, want []ImportBarcode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("barcodes = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Type != want[i].Type || got[i].Value != want[i].Value {
			t.Errorf("barcode[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
