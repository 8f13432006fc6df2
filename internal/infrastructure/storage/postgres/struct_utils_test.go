package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/entity"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

type mockScoped struct {
	entity.Scoped
	Type  string  `db:"type" json:"type"`
	Value string  `db:"value" json:"value"`
	Note  *string `db:"note" json:"note,omitempty"`
	Skip  string  `db:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockScoped]()

	expected := []string{
		"id", "created_at", "updated_at", "organization_id", "type", "value", "note",
	}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	orgID := id.New()
	m := mockScoped{
		Scoped: entity.NewScoped(orgID),
		Type:   "Code128",
		Value:  "ABCD1234",
		Skip:   "ignored",
	}

	got := StructToMap(m)

	assert.Equal(t, m.ID, got["id"])
	assert.Equal(t, orgID, got["organization_id"])
	assert.Equal(t, "Code128", got["type"])
	assert.Equal(t, "ABCD1234", got["value"])
	assert.Nil(t, got["note"])
	_, hasSkip := got["Skip"]
	assert.False(t, hasSkip)
}

func TestStructToMapPointerInput(t *testing.T) {
	m := &mockScoped{Type: "EAN13", Value: "9780201379624"}
	got := StructToMap(m)
	assert.Equal(t, "EAN13", got["type"])
}
