package store

import (
	"github.com/leapstack-labs/leaptable/internal/table"
)

// CellEdit is one explicit value write into a (row, column) slot.
type CellEdit struct {
	RowID    string      `json:"rowId"`
	ColumnID string      `json:"columnId"`
	Value    table.Value `json:"cell"`
}

// EditCells writes explicit values into cells, grouped by row so each row's
// cell map is merged in one step. Empty tableID targets the active table.
// Edits for rows that no longer exist are dropped silently: an in-flight
// answer resolving after its row was deleted must land as a harmless no-op.
func (s *Store) EditCells(tableID string, edits []CellEdit) {
	if len(edits) == 0 {
		return
	}
	byRow := make(map[string][]CellEdit)
	for _, e := range edits {
		byRow[e.RowID] = append(byRow[e.RowID], e)
	}
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, row := range t.Rows {
		for _, e := range byRow[row.ID] {
			if t.ColumnByID(e.ColumnID) == nil {
				continue
			}
			row.SetCell(e.ColumnID, e.Value)
		}
	}
	s.mu.Unlock()
	s.notify()
}

// ClearCells removes the computed values of specific cells, leaving rows and
// columns in place.
func (s *Store) ClearCells(refs []table.CellRef) {
	if len(refs) == 0 {
		return
	}
	byRow := make(map[string][]string)
	for _, ref := range refs {
		byRow[ref.RowID] = append(byRow[ref.RowID], ref.ColumnID)
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, row := range t.Rows {
		for _, columnID := range byRow[row.ID] {
			delete(row.Cells, columnID)
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Chunks returns the supporting excerpts stored for a cell.
func (s *Store) Chunks(tableID string, ref table.CellRef) []table.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tableLocked(tableID)
	if t == nil {
		return nil
	}
	return append([]table.Chunk(nil), t.Chunks[ref.Key()]...)
}

// OpenChunks marks the given cells' citations as opened (a transient UI
// selection mirrored here so every collaborator sees the same state).
func (s *Store) OpenChunks(refs []table.CellRef) {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = ref.Key()
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.OpenedChunks = keys
	s.mu.Unlock()
	s.notify()
}

// CloseChunks clears the opened-chunks selection.
func (s *Store) CloseChunks() {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.OpenedChunks = []string{}
	s.mu.Unlock()
	s.notify()
}
