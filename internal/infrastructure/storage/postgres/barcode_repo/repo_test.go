package barcode_repo

import (
	"strings"
	"testing"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
)

func TestBuildOp(t *testing.T) {
	repo := NewRepo(nil)
	orgID := id.New()

	t.Run("create", func(t *testing.T) {
		b := barcode.New(barcode.TypeCode128, "ABC-123", orgID, barcode.AssetOwner(id.New()))
		sql, args, err := repo.buildOp(barcode.OpCreate{Barcode: b})
		if err != nil {
			t.Fatalf("buildOp: %v", err)
		}
		if !strings.HasPrefix(sql, "INSERT INTO barcodes") {
			t.Errorf("unexpected SQL: %s", sql)
		}
		if len(args) != len(repo.cols) {
			t.Errorf("args count = %d, want %d", len(args), len(repo.cols))
		}
	})

	t.Run("update", func(t *testing.T) {
		sql, args, err := repo.buildOp(barcode.OpUpdate{
			ID:             id.New(),
			OrganizationID: orgID,
			Type:           barcode.TypeCode39,
			Value:          "NEWVALUE",
		})
		if err != nil {
			t.Fatalf("buildOp: %v", err)
		}
		if !strings.HasPrefix(sql, "UPDATE barcodes SET") {
			t.Errorf("unexpected SQL: %s", sql)
		}
		if !strings.Contains(sql, "id = $") || !strings.Contains(sql, "organization_id = $") {
			t.Errorf("missing scoping clauses: %s", sql)
		}
		if len(args) != 5 {
			t.Errorf("args count = %d, want 5", len(args))
		}
	})

	t.Run("delete many", func(t *testing.T) {
		ids := []id.ID{id.New(), id.New()}
		sql, args, err := repo.buildOp(barcode.OpDeleteMany{IDs: ids, OrganizationID: orgID})
		if err != nil {
			t.Fatalf("buildOp: %v", err)
		}
		if !strings.HasPrefix(sql, "DELETE FROM barcodes WHERE") {
			t.Errorf("unexpected SQL: %s", sql)
		}
		if !strings.Contains(sql, "IN ($1,$2)") {
			t.Errorf("expected IN clause over ids: %s", sql)
		}
		if len(args) != 3 {
			t.Errorf("args count = %d, want 3", len(args))
		}
	})
}

func TestLinkedSelectJoinsOwners(t *testing.T) {
	repo := NewRepo(nil)

	sql, _, err := repo.linkedSelect().ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	for _, want := range []string{
		"LEFT JOIN assets a ON a.id = b.asset_id",
		"LEFT JOIN kits k ON k.id = b.kit_id",
		"a.title AS asset_title",
		"k.name AS kit_name",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}
}

func TestOwnerColumn(t *testing.T) {
	if col, err := ownerColumn(barcode.AssetOwner(id.New())); err != nil || col != "asset_id" {
		t.Errorf("asset owner: col=%q err=%v", col, err)
	}
	if col, err := ownerColumn(barcode.KitOwner(id.New())); err != nil || col != "kit_id" {
		t.Errorf("kit owner: col=%q err=%v", col, err)
	}
	if _, err := ownerColumn(barcode.NoOwner()); err == nil {
		t.Error("expected error for missing owner")
	}
}
