package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leaptable/internal/table"
)

func TestEditBuffer_FlushCommitsPending(t *testing.T) {
	s := newTestStore(t)
	b := NewEditBuffer(s, 0)

	b.Put(table.CellRef{RowID: "r3", ColumnID: "col1"}, "Carol")
	// Nothing lands until the flush.
	assert.True(t, s.ActiveTable().RowByID("r3").Cell("col1").IsAbsent())

	b.Flush()
	assert.True(t, s.ActiveTable().RowByID("r3").Cell("col1").Equal(table.Str("Carol")))
}

func TestEditBuffer_NewestEditWins(t *testing.T) {
	s := newTestStore(t)
	b := NewEditBuffer(s, 0)

	ref := table.CellRef{RowID: "r3", ColumnID: "col1"}
	b.Put(ref, "first")
	b.Put(ref, "second")
	b.Flush()

	assert.True(t, s.ActiveTable().RowByID("r3").Cell("col1").Equal(table.Str("second")))
}

func TestEditBuffer_CastsAtFlushTime(t *testing.T) {
	s := newTestStore(t)
	b := NewEditBuffer(s, 0)

	ref := table.CellRef{RowID: "r3", ColumnID: "col1"}
	b.Put(ref, "42 items")

	// Retyping the column while the edit is pending: the flush casts under the
	// new type, not the one at Put time.
	typ := table.TypeInt
	s.EditColumn("col1", ColumnPatch{Type: &typ})
	b.Flush()

	assert.True(t, s.ActiveTable().RowByID("r3").Cell("col1").Equal(table.Int(42)))
}

func TestEditBuffer_DropsEditsForDeletedColumns(t *testing.T) {
	s := newTestStore(t)
	b := NewEditBuffer(s, 0)

	b.Put(table.CellRef{RowID: "r3", ColumnID: "col2"}, "orphaned")
	s.DeleteColumns([]string{"col2"})
	b.Flush()

	assert.NotContains(t, s.ActiveTable().RowByID("r3").Cells, "col2")
}

func TestEditBuffer_AutoFlushAfterWindow(t *testing.T) {
	s := newTestStore(t)
	b := NewEditBuffer(s, 10*time.Millisecond)
	defer b.Close()

	b.Put(table.CellRef{RowID: "r3", ColumnID: "col1"}, "auto")

	assert.Eventually(t, func() bool {
		return s.ActiveTable().RowByID("r3").Cell("col1").Equal(table.Str("auto"))
	}, time.Second, 5*time.Millisecond)
}

func TestEditBuffer_FlushEmptyIsNoOp(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.SetOnChange(func() { calls++ })
	b := NewEditBuffer(s, 0)
	b.Flush()
	assert.Zero(t, calls)
}
