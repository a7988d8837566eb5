package table

import "strings"

// KeyDelimiter separates the row and column ids in a flat cell key.
const KeyDelimiter = "-"

// UndefinedKeyPart is the placeholder serialized for a coordinate whose row or
// column lookup failed. Selections can legitimately contain such keys; they
// never match a real cell.
const UndefinedKeyPart = "undefined"

// CellRef addresses a cell by row and column identity. Cells are keyed by
// CellRef internally; the flat string form exists only at serialization
// boundaries (selection, chunks, loading state, the wire).
type CellRef struct {
	RowID    string `json:"rowId"`
	ColumnID string `json:"columnId"`
}

// Key flattens the ref to its canonical string form, rowId first.
func (c CellRef) Key() string {
	return c.RowID + KeyDelimiter + c.ColumnID
}

// Key builds the flat cell key for a (row, column) pair.
func Key(rowID, columnID string) string {
	return CellRef{RowID: rowID, ColumnID: columnID}.Key()
}

// ParseKey splits a flat key on its first delimiter. Ids containing the
// delimiter are ambiguous in flat form; callers that need exact identity keep
// the structured CellRef instead.
func ParseKey(key string) (CellRef, bool) {
	row, col, ok := strings.Cut(key, KeyDelimiter)
	if !ok {
		return CellRef{}, false
	}
	return CellRef{RowID: row, ColumnID: col}, true
}
