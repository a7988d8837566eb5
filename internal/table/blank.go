package table

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultColumnWidth is the display width hint for new columns.
const DefaultColumnWidth = 160

// Default dimensions of a freshly created sheet.
const (
	DefaultBlankColumns = 10
	DefaultBlankRows    = 100
)

// DefaultTableName names the sheet a fresh workbook starts with.
const DefaultTableName = "First Table"

// NewID returns an opaque stable identifier. The dashes are stripped so ids
// never contain the flat cell-key delimiter.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BlankColumn returns a new generated str column with no question yet.
func BlankColumn() *Column {
	return &Column{
		ID:       NewID(),
		Width:    DefaultColumnWidth,
		Type:     TypeStr,
		Generate: true,
		Rules:    []Rule{},
	}
}

// BlankRow returns a new row with no document and no computed cells.
func BlankRow() *Row {
	return &Row{
		ID:    NewID(),
		Cells: make(map[string]Value),
	}
}

// BlankTable returns a sheet pre-sized with blank columns and rows, the shape
// a new workbook presents before any documents are uploaded.
func BlankTable(name string) *Table {
	if name == "" {
		name = DefaultTableName
	}
	t := &Table{
		ID:           NewID(),
		Name:         name,
		Columns:      make([]*Column, 0, DefaultBlankColumns),
		Rows:         make([]*Row, 0, DefaultBlankRows),
		GlobalRules:  []*GlobalRule{},
		Filters:      []*Filter{},
		Chunks:       make(map[string][]Chunk),
		OpenedChunks: []string{},
		LoadingCells: make(map[string]bool),
	}
	for i := 0; i < DefaultBlankColumns; i++ {
		t.Columns = append(t.Columns, BlankColumn())
	}
	for i := 0; i < DefaultBlankRows; i++ {
		t.Rows = append(t.Rows, BlankRow())
	}
	return t
}
