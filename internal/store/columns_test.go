package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptable/internal/table"
)

func columnIDs(t *table.Table) []string {
	ids := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		ids[i] = c.ID
	}
	return ids
}

func TestInsertColumn(t *testing.T) {
	s := newTestStore(t)

	id := s.InsertColumnBefore("col2")
	require.NotEmpty(t, id)
	assert.Equal(t, []string{"col1", id, "col2"}, columnIDs(s.ActiveTable()))

	tail := s.InsertColumnAfter("")
	assert.Equal(t, []string{"col1", id, "col2", tail}, columnIDs(s.ActiveTable()))

	head := s.InsertColumnBefore("")
	assert.Equal(t, []string{head, "col1", id, "col2", tail}, columnIDs(s.ActiveTable()))
}

func TestInsertColumn_UnknownAnchorIsNoOp(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.InsertColumnBefore("missing"))
	assert.Empty(t, s.InsertColumnAfter("missing"))
	assert.Equal(t, []string{"col1", "col2"}, columnIDs(s.ActiveTable()))
}

func TestEditColumn(t *testing.T) {
	s := newTestStore(t)
	entityType := "Person"
	query := "Who signed?"
	typ := table.TypeBool
	hidden := true
	s.EditColumn("col1", ColumnPatch{
		EntityType: &entityType,
		Query:      &query,
		Type:       &typ,
		Hidden:     &hidden,
	})

	col := s.ActiveTable().ColumnByID("col1")
	assert.Equal(t, "Person", col.EntityType)
	assert.Equal(t, "Who signed?", col.Query)
	assert.Equal(t, table.TypeBool, col.Type)
	assert.True(t, col.Hidden)
	// Untouched fields survive a partial patch.
	assert.True(t, col.Generate)
	assert.Equal(t, table.DefaultColumnWidth, col.Width)
}

func TestEditColumn_InvalidTypeIgnored(t *testing.T) {
	s := newTestStore(t)
	typ := table.ValueType("blob")
	s.EditColumn("col1", ColumnPatch{Type: &typ})
	assert.Equal(t, table.TypeStr, s.ActiveTable().ColumnByID("col1").Type)
}

func TestToggleAllColumns(t *testing.T) {
	s := newTestStore(t)
	s.ToggleAllColumns(true)
	for _, col := range s.ActiveTable().Columns {
		assert.True(t, col.Hidden)
	}
	s.ToggleAllColumns(false)
	for _, col := range s.ActiveTable().Columns {
		assert.False(t, col.Hidden)
	}
}

func TestDeleteColumns_Cascades(t *testing.T) {
	s := newTestStore(t)
	key := table.Key("r1", "col1")
	keep := table.Key("r1", "col2")
	s.OpenChunks([]table.CellRef{{RowID: "r1", ColumnID: "col1"}})
	s.ApplyQueryOutcome("t1", QueryOutcome{
		Ref:    table.CellRef{RowID: "r1", ColumnID: "col1"},
		Answer: table.Str("Alice"),
		Chunks: []table.Chunk{{Content: "Alice signed", Page: 1}},
	})
	s.ApplyQueryOutcome("t1", QueryOutcome{
		Ref:    table.CellRef{RowID: "r1", ColumnID: "col2"},
		Answer: table.StrArray([]string{"legal"}),
		Chunks: []table.Chunk{{Content: "tags", Page: 2}},
	})
	s.SetSelection([]string{key})

	s.DeleteColumns([]string{"col1"})

	tbl := s.ActiveTable()
	assert.Equal(t, []string{"col2"}, columnIDs(tbl))
	for _, row := range tbl.Rows {
		assert.NotContains(t, row.Cells, "col1")
	}
	assert.NotContains(t, tbl.Chunks, key)
	assert.Contains(t, tbl.Chunks, keep)
	assert.Empty(t, tbl.OpenedChunks)
	assert.Empty(t, s.Selection())
}

func TestClearColumns(t *testing.T) {
	s := newTestStore(t)
	s.ClearColumns([]string{"col1"})
	tbl := s.ActiveTable()
	for _, row := range tbl.Rows {
		assert.True(t, row.Cell("col1").IsAbsent())
	}
	// The column itself survives.
	assert.NotNil(t, tbl.ColumnByID("col1"))
}

func TestUnwindColumn(t *testing.T) {
	s := newTestStore(t)
	s.EditCells("t1", []CellEdit{
		{RowID: "r1", ColumnID: "col2", Value: table.StrArray([]string{"legal", "urgent"})},
		{RowID: "r2", ColumnID: "col2", Value: table.StrArray([]string{"draft"})},
	})

	s.UnwindColumn("col2")

	tbl := s.ActiveTable()
	// r1 fans out into two rows, r2 into one; r3 had no array and is dropped.
	require.Len(t, tbl.Rows, 3)
	col := tbl.ColumnByID("col2")
	assert.Equal(t, table.TypeStr, col.Type)

	assert.True(t, tbl.Rows[0].Cell("col2").Equal(table.Str("legal")))
	assert.True(t, tbl.Rows[1].Cell("col2").Equal(table.Str("urgent")))
	assert.True(t, tbl.Rows[2].Cell("col2").Equal(table.Str("draft")))
	// Scalar neighbours are copied into every fanned-out row.
	assert.True(t, tbl.Rows[0].Cell("col1").Equal(table.Str("Alice")))
	assert.True(t, tbl.Rows[1].Cell("col1").Equal(table.Str("Alice")))
	assert.True(t, tbl.Rows[2].Cell("col1").Equal(table.Str("Bob")))
	// The source document travels with each fragment.
	assert.Equal(t, "d1", tbl.Rows[0].Source.Document.ID)
	assert.Equal(t, "d1", tbl.Rows[1].Source.Document.ID)
}

func TestUnwindColumn_ScalarIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.UnwindColumn("col1")
	tbl := s.ActiveTable()
	assert.Len(t, tbl.Rows, 3)
	assert.Equal(t, table.TypeStr, tbl.ColumnByID("col1").Type)
}
