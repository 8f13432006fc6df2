package barcode

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
)

// Spreadsheet columns carrying barcode values, one per type. A cell may
// hold several values separated by commas.
const importColumnPrefix = "barcode_"

// ImportRow is one spreadsheet row keyed by column name. The "key" and
// "title" columns identify the asset being imported; barcode_<Type>
// columns carry the values.
type ImportRow map[string]string

// ImportBarcode is one barcode extracted from an import row. When
// ExistingID is set the value already exists in the store as an orphan and
// the importer should relink that record instead of creating a new one.
type ImportBarcode struct {
	ExistingID *id.ID `json:"existingId,omitempty"`
	Type       Type   `json:"type"`
	Value      string `json:"value"`
}

// ImportEntry groups the barcodes of a single imported asset.
type ImportEntry struct {
	Key      string          `json:"key"`
	Title    string          `json:"title"`
	Barcodes []ImportBarcode `json:"barcodes"`
}

// ImportOccurrence points at one appearance of a barcode value in the
// import data, identified by the row's key and title and the column type
// the value came from.
type ImportOccurrence struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  Type   `json:"type"`
}

// ImportConflict describes a rejected value together with every place it
// appears in the import. LinkedTo names the asset or kit already holding
// the value when the conflict comes from the store.
type ImportConflict struct {
	Value       string             `json:"value"`
	Occurrences []ImportOccurrence `json:"occurrences"`
	LinkedTo    string             `json:"linkedTo,omitempty"`
}

// ParseImportRows extracts and validates barcodes from asset import rows.
//
// Each barcode_<Type> cell is split on commas, trimmed and stripped of
// empty pieces; surviving values are normalized and validated against the
// column's type. Rows without any barcode are dropped from the result.
//
// Three conflict levels are checked before the importer touches the store:
// value syntax per type, duplicates across the whole import, and values
// already linked to another asset or kit in the organization. Orphaned
// values already in the store are not conflicts; they come back with
// ExistingID set so the importer reuses the row. One store query is issued
// for the whole batch.
func (s *Service) ParseImportRows(ctx context.Context, rows []ImportRow, organizationID id.ID) ([]ImportEntry, error) {
	entries := make([]ImportEntry, 0, len(rows))
	var allValues []string
	occurrences := make(map[string][]ImportOccurrence)

	for _, row := range rows {
		title := row["title"]
		var parsed []ImportBarcode

		for _, t := range Types {
			cell, ok := row[importColumnPrefix+string(t)]
			if !ok {
				continue
			}
			for _, piece := range strings.Split(cell, ",") {
				raw := strings.TrimSpace(piece)
				if raw == "" {
					continue
				}
				value := Normalize(t, raw)
				if err := Validate(t, value); err != nil {
					return nil, apperror.NewValidation(
						fmt.Sprintf("Invalid %s barcode \"%s\" for asset \"%s\"", t, raw, title)).
						WithLabel(Label).
						WithDetail("key", row["key"]).
						WithDetail("title", title).
						WithDetail("value", raw).
						WithDetail("reason", err.Error())
				}
				parsed = append(parsed, ImportBarcode{Type: t, Value: value})
				allValues = append(allValues, value)
				occurrences[value] = append(occurrences[value], ImportOccurrence{
					Key:   row["key"],
					Title: title,
					Type:  t,
				})
			}
		}

		if len(parsed) == 0 {
			continue
		}
		entries = append(entries, ImportEntry{
			Key:      row["key"],
			Title:    title,
			Barcodes: parsed,
		})
	}

	if len(entries) == 0 {
		return entries, nil
	}

	if dups := duplicatedConflicts(occurrences); len(dups) > 0 {
		return nil, apperror.NewValidation("Some barcodes appear multiple times in the import data").
			WithLabel(Label).
			WithDetail("duplicates", dups)
	}

	existing, err := s.repo.FindLinkedByValues(ctx, allValues, organizationID)
	if err != nil {
		return nil, apperror.NewDatabase("Failed to check barcodes against existing data", err).
			WithLabel(Label).
			WithDetail("organizationId", organizationID)
	}

	orphans := make(map[string]id.ID)
	var linked []ImportConflict
	for i := range existing {
		row := &existing[i]
		if row.Orphaned() {
			orphans[row.Value] = row.ID
		} else {
			linked = append(linked, ImportConflict{
				Value:       row.Value,
				Occurrences: occurrences[row.Value],
				LinkedTo:    row.OwnerName(),
			})
		}
	}
	if len(linked) > 0 {
		sort.Slice(linked, func(i, j int) bool { return linked[i].Value < linked[j].Value })
		return nil, apperror.NewValidation("Some barcodes are already linked to other assets or kits in your organization").
			WithLabel(Label).
			WithDetail("conflicting", linked)
	}

	for ei := range entries {
		for bi := range entries[ei].Barcodes {
			b := &entries[ei].Barcodes[bi]
			if existingID, ok := orphans[b.Value]; ok {
				eid := existingID
				b.ExistingID = &eid
			}
		}
	}

	return entries, nil
}

// duplicatedConflicts returns every value occurring more than once, each
// with the full list of rows and columns it appeared in, sorted by value
// for stable error output.
func duplicatedConflicts(occurrences map[string][]ImportOccurrence) []ImportConflict {
	var dups []ImportConflict
	for value, occ := range occurrences {
		if len(occ) > 1 {
			dups = append(dups, ImportConflict{Value: value, Occurrences: occ})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Value < dups[j].Value })
	return dups
}
