package store

import (
	"sync"
	"time"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// EditBuffer coalesces free-text cell edits before committing them, the
// explicit replacement for timer-driven debouncing: edits accumulate per
// cell, the newest wins, and Flush commits the batch through EditCells with
// each value cast to its column's declared type. A flush window may be set to
// auto-commit after a quiet period; Flush and Close force it.
type EditBuffer struct {
	mu      sync.Mutex
	store   *Store
	pending map[table.CellRef]string
	window  time.Duration
	timer   *time.Timer
}

// NewEditBuffer creates a buffer committing into the store. A zero window
// disables auto-flush.
func NewEditBuffer(s *Store, window time.Duration) *EditBuffer {
	return &EditBuffer{
		store:   s,
		pending: make(map[table.CellRef]string),
		window:  window,
	}
}

// Put records a raw edit for a cell, replacing any pending edit for the same
// cell, and (re)arms the flush window.
func (b *EditBuffer) Put(ref table.CellRef, raw string) {
	b.mu.Lock()
	b.pending[ref] = raw
	if b.window > 0 {
		if b.timer != nil {
			b.timer.Stop()
		}
		b.timer = time.AfterFunc(b.window, b.Flush)
	}
	b.mu.Unlock()
}

// Flush commits all pending edits as one batch. Values are cast to the
// owning column's declared type at commit time, so a column retyped while
// the edit was pending commits under the new type. Edits against columns
// that no longer exist are dropped.
func (b *EditBuffer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	pending := b.pending
	b.pending = make(map[table.CellRef]string)
	b.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	t := b.store.ActiveTable()
	if t == nil {
		return
	}
	edits := make([]CellEdit, 0, len(pending))
	for ref, raw := range pending {
		column := t.ColumnByID(ref.ColumnID)
		if column == nil {
			continue
		}
		edits = append(edits, CellEdit{
			RowID:    ref.RowID,
			ColumnID: ref.ColumnID,
			Value:    table.CastToType(table.Str(raw), column.Type),
		})
	}
	b.store.EditCells("", edits)
}

// Close flushes and stops the timer.
func (b *EditBuffer) Close() {
	b.Flush()
}
