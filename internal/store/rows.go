package store

import (
	"github.com/leapstack-labs/leaptable/internal/table"
)

// InsertRowBefore inserts a blank row before the anchor, or at the head when
// no anchor is given. Unknown anchors make the operation a no-op. Returns the
// new row's id, or "" for a no-op.
func (s *Store) InsertRowBefore(anchorID string) string {
	return s.insertRow(anchorID, false)
}

// InsertRowAfter inserts a blank row after the anchor, or at the tail.
func (s *Store) InsertRowAfter(anchorID string) string {
	return s.insertRow(anchorID, true)
}

func (s *Store) insertRow(anchorID string, after bool) string {
	row := table.BlankRow()
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return ""
	}
	idx := 0
	if after {
		idx = len(t.Rows)
	}
	if anchorID != "" {
		idx = -1
		for i, r := range t.Rows {
			if r.ID == anchorID {
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
	t.Rows = append(t.Rows[:idx], append([]*table.Row{row}, t.Rows[idx:]...)...)
	s.mu.Unlock()
	s.notify()
	return row.ID
}

// DeleteRows removes the rows and their cells, chunks and loading state. It
// returns the ids of documents no longer referenced by any surviving row in
// any table; the caller owns deleting them from the document store
// (reference-counted cleanup).
func (s *Store) DeleteRows(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return nil
	}
	removedDocs := make(map[string]bool)
	next := make([]*table.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !drop[row.ID] {
			next = append(next, row)
			continue
		}
		if row.Source != nil {
			removedDocs[row.Source.Document.ID] = true
		}
	}
	t.Rows = next
	pruneCellKeyed(t, func(ref table.CellRef) bool { return drop[ref.RowID] })

	// A document is deletable once no surviving row anywhere points at it.
	for _, tbl := range s.state.Tables {
		for _, row := range tbl.Rows {
			if row.Source != nil {
				delete(removedDocs, row.Source.Document.ID)
			}
		}
	}
	s.mu.Unlock()
	s.notify()

	orphaned := make([]string, 0, len(removedDocs))
	for id := range removedDocs {
		orphaned = append(orphaned, id)
	}
	return orphaned
}

// ClearRows detaches the rows' documents and drops their computed values,
// keeping the rows themselves in place.
func (s *Store) ClearRows(ids []string) {
	targets := make(map[string]bool, len(ids))
	for _, id := range ids {
		targets[id] = true
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, row := range t.Rows {
		if targets[row.ID] {
			row.Source = nil
			row.Cells = make(map[string]table.Value)
		}
	}
	s.mu.Unlock()
	s.notify()
}

// AttachDocument attaches an uploaded document to the row, dropping any
// previously computed cells. No-op on unknown row.
func (s *Store) AttachDocument(tableID, rowID string, doc table.Document) {
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	row := t.RowByID(rowID)
	if row == nil {
		s.mu.Unlock()
		return
	}
	row.Source = &table.SourceData{Type: "document", Document: doc}
	row.Cells = make(map[string]table.Value)
	s.mu.Unlock()
	s.notify()
}

// FirstEmptyRowID returns the id of the first row without a document, or "".
func (s *Store) FirstEmptyRowID(tableID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tableLocked(tableID)
	if t == nil {
		return ""
	}
	for _, row := range t.Rows {
		if row.Source == nil {
			return row.ID
		}
	}
	return ""
}

// AppendRow appends a blank row to the table and returns its id.
func (s *Store) AppendRow(tableID string) string {
	row := table.BlankRow()
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return ""
	}
	t.Rows = append(t.Rows, row)
	s.mu.Unlock()
	s.notify()
	return row.ID
}

// SetUploadingFiles flags the table while a bulk upload is in progress. The
// flag is always cleared by the uploader, even when individual files fail.
func (s *Store) SetUploadingFiles(tableID string, uploading bool) {
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.UploadingFiles = uploading
	s.mu.Unlock()
	s.notify()
}
