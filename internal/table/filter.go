package table

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// EntityTypeEqual compares two entity-type names the way global rules match
// columns: trimmed and case-folded.
func EntityTypeEqual(a, b string) bool {
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// Matches evaluates the filter against a single row. A blank filter value, a
// missing column or a nil cell passes vacuously; visibility never hides rows
// for data that does not exist yet.
func (f *Filter) Matches(t *Table, row *Row) bool {
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return true
	}
	column := t.ColumnByID(f.ColumnID)
	if column == nil {
		return true
	}
	cell := row.Cell(column.ID)
	if cell.IsNil() {
		return true
	}
	needle := fold.String(value)
	contains := false
	for _, elem := range cell.Strings() {
		if strings.Contains(fold.String(elem), needle) {
			contains = true
			break
		}
	}
	if f.Criteria == FilterContains {
		return contains
	}
	return !contains
}

// ApplyFilters recomputes every row's hidden flag as the conjunction of all
// active filters. An empty filter set makes every row visible.
func (t *Table) ApplyFilters() {
	for _, row := range t.Rows {
		visible := true
		for _, f := range t.Filters {
			if !f.Matches(t, row) {
				visible = false
				break
			}
		}
		row.Hidden = !visible
	}
}
