// Package grid maps between ordered row/column key sequences and a
// rectangular index space, and computes the cell-key sets covered by range
// and drag selection gestures. It is a pure derivation layer: it never
// touches table data, only key order.
package grid

import (
	"sort"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// CellsInRange returns every cell key in the rectangle spanned by two corner
// keys, inclusive of both corners. A corner key whose row or column cannot be
// found resolves to coordinate 0. Coordinates whose axis lookup is out of
// range serialize with the "undefined" placeholder; such keys are part of the
// selection but never address a real cell.
func CellsInRange(start, end string, columns, rows []string) map[string]struct{} {
	startRef, _ := table.ParseKey(start)
	endRef, _ := table.ParseKey(end)

	columnIndex := make(map[string]int, len(columns))
	for i, key := range columns {
		columnIndex[key] = i
	}
	rowIndex := make(map[string]int, len(rows))
	for i, key := range rows {
		rowIndex[key] = i
	}

	startX := columnIndex[startRef.ColumnID]
	startY := rowIndex[startRef.RowID]
	endX := columnIndex[endRef.ColumnID]
	endY := rowIndex[endRef.RowID]

	if startX > endX {
		startX, endX = endX, startX
	}
	if startY > endY {
		startY, endY = endY, startY
	}

	selection := make(map[string]struct{}, (endX-startX+1)*(endY-startY+1))
	for y := startY; y <= endY; y++ {
		for x := startX; x <= endX; x++ {
			selection[table.Key(axisKey(rows, y), axisKey(columns, x))] = struct{}{}
		}
	}
	return selection
}

func axisKey(axis []string, i int) string {
	if i < 0 || i >= len(axis) {
		return table.UndefinedKeyPart
	}
	return axis[i]
}

// Drag is the state of one pointer-drag gesture over the grid.
type Drag struct {
	Start string
	End   string
	// Toggle is true while the modifier key is held: the rectangle is XORed
	// key-by-key against Initial instead of replacing it.
	Toggle  bool
	Initial map[string]struct{}
}

// Selection computes the effective selection of the drag: the current
// rectangle, optionally toggled against the initial selection. Toggling is an
// involution, so applying the same rectangle twice restores Initial.
func (d Drag) Selection(columns, rows []string) []string {
	selection := CellsInRange(d.Start, d.End, columns, rows)
	if d.Toggle {
		for key := range d.Initial {
			if _, ok := selection[key]; ok {
				delete(selection, key)
			} else {
				selection[key] = struct{}{}
			}
		}
	}
	return sortedKeys(selection)
}

// Session tracks the lifecycle of drag gestures: begin on pointer-down, move
// on every pointer-move with the primary button held, end on release, cancel
// on the cancel key.
type Session struct {
	drag *Drag
}

// Begin starts a drag anchored at startKey. The current selection is captured
// for toggle semantics.
func (s *Session) Begin(startKey string, toggle bool, current []string) {
	initial := make(map[string]struct{}, len(current))
	for _, key := range current {
		initial[key] = struct{}{}
	}
	s.drag = &Drag{Start: startKey, End: startKey, Toggle: toggle, Initial: initial}
}

// Move updates the drag endpoint and modifier state, returning the effective
// selection for the new rectangle. No-op when no drag is active.
func (s *Session) Move(endKey string, toggle bool, columns, rows []string) []string {
	if s.drag == nil {
		return nil
	}
	s.drag.End = endKey
	s.drag.Toggle = toggle
	return s.drag.Selection(columns, rows)
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool { return s.drag != nil }

// End finishes the gesture, dropping the captured initial selection without
// touching the rectangle it last computed.
func (s *Session) End() { s.drag = nil }

// RowKeys returns the full cell-key set of one row, the selection a
// whole-row click replaces the current selection with.
func RowKeys(rowID string, columns []string) []string {
	keys := make([]string, len(columns))
	for i, col := range columns {
		keys[i] = table.Key(rowID, col)
	}
	return keys
}

// ColumnKeys returns the full cell-key set of one column.
func ColumnKeys(columnID string, rows []string) []string {
	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = table.Key(row, columnID)
	}
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
