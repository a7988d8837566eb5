package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() *Table {
	tbl := &Table{
		Columns: []*Column{
			{ID: "name", EntityType: "Name", Type: TypeStr},
			{ID: "tags", EntityType: "Tags", Type: TypeStrArray},
		},
		Rows: []*Row{
			{ID: "r1", Cells: map[string]Value{"name": Str("Alice Smith")}},
			{ID: "r2", Cells: map[string]Value{"name": Str("Bob Jones"), "tags": StrArray([]string{"Staff", "Admin"})}},
			{ID: "r3", Cells: map[string]Value{}},
		},
	}
	return tbl
}

func TestFilter_Matches(t *testing.T) {
	tbl := filterFixture()
	tests := []struct {
		name   string
		filter Filter
		rowID  string
		want   bool
	}{
		{"folded substring", Filter{ColumnID: "name", Criteria: FilterContains, Value: "aLiCe"}, "r1", true},
		{"no match", Filter{ColumnID: "name", Criteria: FilterContains, Value: "alice"}, "r2", false},
		{"contains_not inverts", Filter{ColumnID: "name", Criteria: FilterContainsNot, Value: "alice"}, "r2", true},
		{"array element match", Filter{ColumnID: "tags", Criteria: FilterContains, Value: "admin"}, "r2", true},
		{"blank value passes", Filter{ColumnID: "name", Criteria: FilterContains, Value: "   "}, "r2", true},
		{"missing column passes", Filter{ColumnID: "gone", Criteria: FilterContains, Value: "x"}, "r1", true},
		{"empty cell passes", Filter{ColumnID: "name", Criteria: FilterContains, Value: "x"}, "r3", true},
		{"empty cell passes contains_not", Filter{ColumnID: "name", Criteria: FilterContainsNot, Value: "x"}, "r3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tbl.RowByID(tt.rowID)
			assert.Equal(t, tt.want, tt.filter.Matches(tbl, row))
		})
	}
}

func TestApplyFilters_Conjunction(t *testing.T) {
	tbl := filterFixture()
	tbl.Filters = []*Filter{
		{ColumnID: "name", Criteria: FilterContains, Value: "o"},
		{ColumnID: "tags", Criteria: FilterContains, Value: "staff"},
	}
	tbl.ApplyFilters()

	// r1 passes the tags filter vacuously but fails the name filter.
	assert.True(t, tbl.RowByID("r1").Hidden)
	assert.False(t, tbl.RowByID("r2").Hidden)
	// r3 has no data so every filter passes vacuously.
	assert.False(t, tbl.RowByID("r3").Hidden)
}

func TestApplyFilters_EmptySetShowsAll(t *testing.T) {
	tbl := filterFixture()
	for _, row := range tbl.Rows {
		row.Hidden = true
	}
	tbl.ApplyFilters()
	for _, row := range tbl.Rows {
		assert.False(t, row.Hidden)
	}
}

func TestEntityTypeEqual(t *testing.T) {
	assert.True(t, EntityTypeEqual("Name", "name"))
	assert.True(t, EntityTypeEqual("  Name ", "NAME"))
	assert.False(t, EntityTypeEqual("Name", "Names"))
}
