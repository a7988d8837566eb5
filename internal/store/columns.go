package store

import (
	"github.com/leapstack-labs/leaptable/internal/table"
)

// ColumnPatch is a partial column edit; nil fields are left unchanged.
// Editing never triggers a recompute by itself; the caller decides whether
// the change warrants a rerun.
type ColumnPatch struct {
	EntityType *string
	Query      *string
	Type       *table.ValueType
	Generate   *bool
	Hidden     *bool
	Width      *int
	Rules      *[]table.Rule
}

// InsertColumnBefore inserts a blank column before the anchor, or at the head
// when no anchor is given. An anchor that cannot be found makes the whole
// operation a no-op. Returns the new column's id, or "" for a no-op.
func (s *Store) InsertColumnBefore(anchorID string) string {
	return s.insertColumn(anchorID, false)
}

// InsertColumnAfter inserts a blank column after the anchor, or at the tail
// when no anchor is given.
func (s *Store) InsertColumnAfter(anchorID string) string {
	return s.insertColumn(anchorID, true)
}

func (s *Store) insertColumn(anchorID string, after bool) string {
	col := table.BlankColumn()
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return ""
	}
	idx := 0
	if after {
		idx = len(t.Columns)
	}
	if anchorID != "" {
		idx = -1
		for i, c := range t.Columns {
			if c.ID == anchorID {
				idx = i
				if after {
					idx++
				}
				break
			}
		}
		if idx == -1 {
			s.mu.Unlock()
			return ""
		}
	}
	t.Columns = append(t.Columns[:idx], append([]*table.Column{col}, t.Columns[idx:]...)...)
	s.mu.Unlock()
	s.logger.Debug("column inserted", "column", col.ID)
	s.notify()
	return col.ID
}

// EditColumn shallow-merges the patch into the column. No-op on unknown id.
func (s *Store) EditColumn(id string, patch ColumnPatch) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	col := t.ColumnByID(id)
	if col == nil {
		s.mu.Unlock()
		return
	}
	if patch.EntityType != nil {
		col.EntityType = *patch.EntityType
	}
	if patch.Query != nil {
		col.Query = *patch.Query
	}
	if patch.Type != nil && patch.Type.Valid() {
		col.Type = *patch.Type
	}
	if patch.Generate != nil {
		col.Generate = *patch.Generate
	}
	if patch.Hidden != nil {
		col.Hidden = *patch.Hidden
	}
	if patch.Width != nil {
		col.Width = *patch.Width
	}
	if patch.Rules != nil {
		col.Rules = append([]table.Rule(nil), (*patch.Rules)...)
	}
	s.mu.Unlock()
	s.notify()
}

// ToggleAllColumns hides or shows every column of the active table.
func (s *Store) ToggleAllColumns(hidden bool) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, col := range t.Columns {
		col.Hidden = hidden
	}
	s.mu.Unlock()
	s.notify()
}

// DeleteColumns removes the columns and cascades: matching keys are stripped
// from every row's cells and from the chunk and loading maps, and the
// selection is dropped wholesale (a selection referencing a removed column is
// invalid; it is cleared rather than filtered).
func (s *Store) DeleteColumns(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	next := make([]*table.Column, 0, len(t.Columns))
	for _, col := range t.Columns {
		if !drop[col.ID] {
			next = append(next, col)
		}
	}
	t.Columns = next
	for _, row := range t.Rows {
		for id := range drop {
			delete(row.Cells, id)
		}
	}
	pruneCellKeyed(t, func(ref table.CellRef) bool { return drop[ref.ColumnID] })
	s.selection = nil
	s.mu.Unlock()
	s.notify()
}

// ClearColumns removes the computed values of the columns from every row,
// keeping the columns themselves.
func (s *Store) ClearColumns(ids []string) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, row := range t.Rows {
		for _, id := range ids {
			delete(row.Cells, id)
		}
	}
	s.mu.Unlock()
	s.notify()
}

// UnwindColumn fans array-valued cells of an array-typed column out into one
// row per element, narrowing the column to its scalar type. Rows whose cell
// for the column is not an array produce no output rows: this is a
// destructive, non-reversible transform. No-op for scalar columns.
func (s *Store) UnwindColumn(id string) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	col := t.ColumnByID(id)
	if col == nil || !col.Type.IsArray() {
		s.mu.Unlock()
		return
	}
	var newRows []*table.Row
	for _, row := range t.Rows {
		pivot := row.Cell(id)
		if !pivot.IsArray() {
			continue
		}
		for i := 0; i < pivot.Len(); i++ {
			newRow := &table.Row{
				ID:     table.NewID(),
				Source: row.Source,
				Cells:  make(map[string]table.Value, len(t.Columns)),
			}
			for _, c := range t.Columns {
				if c.ID == id {
					newRow.SetCell(c.ID, pivot.Element(i))
				} else {
					newRow.SetCell(c.ID, row.Cell(c.ID))
				}
			}
			newRows = append(newRows, newRow)
		}
	}
	t.Rows = newRows
	col.Type = col.Type.Single()
	// Old row ids are gone wholesale; chunk and loading keys go with them.
	pruneCellKeyed(t, func(table.CellRef) bool { return true })
	s.mu.Unlock()
	s.logger.Debug("column unwound", "column", id, "rows", len(newRows))
	s.notify()
}

// pruneCellKeyed drops chunk and loading entries whose flat key matches.
func pruneCellKeyed(t *table.Table, match func(table.CellRef) bool) {
	for key := range t.Chunks {
		if ref, ok := table.ParseKey(key); ok && match(ref) {
			delete(t.Chunks, key)
		}
	}
	for key := range t.LoadingCells {
		if ref, ok := table.ParseKey(key); ok && match(ref) {
			delete(t.LoadingCells, key)
		}
	}
	kept := t.OpenedChunks[:0]
	for _, key := range t.OpenedChunks {
		if ref, ok := table.ParseKey(key); ok && match(ref) {
			continue
		}
		kept = append(kept, key)
	}
	t.OpenedChunks = kept
}
