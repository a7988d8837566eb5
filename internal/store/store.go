// Package store owns the workbook: every table, the active-table pointer, the
// transient selection and the colour scheme. It is the single shared mutable
// resource of the system; all reads go through Snapshot-style accessors and
// all writes through the action methods in this package, which preserve
// referential integrity (no cell, chunk or loading key ever outlives its row
// or column).
package store

import (
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// SchemaVersion tags persisted snapshots; a snapshot with a different version
// is discarded on load rather than migrated.
const SchemaVersion = 9

// ColorSchemeLight and ColorSchemeDark are the two display schemes.
const (
	ColorSchemeLight = "light"
	ColorSchemeDark  = "dark"
)

// State is the persistable part of the store: what a snapshot holds.
type State struct {
	ColorScheme   string         `json:"colorScheme"`
	Tables        []*table.Table `json:"tables"`
	ActiveTableID string         `json:"activeTableId"`
}

// Clone deep-copies the state.
func (s State) Clone() State {
	out := State{ColorScheme: s.ColorScheme, ActiveTableID: s.ActiveTableID}
	out.Tables = make([]*table.Table, len(s.Tables))
	for i, t := range s.Tables {
		out.Tables[i] = t.Clone()
	}
	return out
}

// Config configures a Store.
type Config struct {
	// Initial seeds the store, typically from a loaded snapshot. Nil starts a
	// fresh workbook with one blank table.
	Initial *State
	// Logger receives structured mutation logs; nil discards.
	Logger *slog.Logger
	// OnChange, when set, runs after every completed mutation (outside the
	// lock). The server uses it to broadcast updates and schedule snapshots.
	OnChange func()
}

// Store is the process-wide root. Constructed once at start and passed by
// reference to every consumer; there is no ambient global.
type Store struct {
	mu        sync.Mutex
	state     State
	selection []string
	logger    *slog.Logger
	onChange  func()
}

// New creates a store from a snapshot or from defaults.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{logger: logger, onChange: cfg.OnChange}
	if cfg.Initial != nil && len(cfg.Initial.Tables) > 0 {
		s.state = cfg.Initial.Clone()
		if s.state.ColorScheme == "" {
			s.state.ColorScheme = ColorSchemeLight
		}
		if s.activeTableLocked() == nil {
			s.state.ActiveTableID = s.state.Tables[0].ID
		}
	} else {
		s.state = initialState()
	}
	return s
}

func initialState() State {
	t := table.BlankTable("")
	return State{
		ColorScheme:   ColorSchemeLight,
		Tables:        []*table.Table{t},
		ActiveTableID: t.ID,
	}
}

// notify runs the change hook outside the lock.
func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// SetOnChange installs the change hook. Must be called before the store is
// shared across goroutines.
func (s *Store) SetOnChange(fn func()) { s.onChange = fn }

// Snapshot returns a deep copy of the persistable state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ColorScheme returns the current scheme.
func (s *Store) ColorScheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ColorScheme
}

// ToggleColorScheme flips between light and dark.
func (s *Store) ToggleColorScheme() {
	s.mu.Lock()
	if s.state.ColorScheme == ColorSchemeLight {
		s.state.ColorScheme = ColorSchemeDark
	} else {
		s.state.ColorScheme = ColorSchemeLight
	}
	s.mu.Unlock()
	s.notify()
}

// ActiveTableID returns the id of the active table.
func (s *Store) ActiveTableID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveTableID
}

// Table returns a deep copy of the table with the given id; empty id means
// the active table. The second return is false when no such table exists.
func (s *Store) Table(id string) (*table.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tableLocked(id)
	if t == nil {
		return nil, false
	}
	return t.Clone(), true
}

// ActiveTable returns a deep copy of the active table.
func (s *Store) ActiveTable() *table.Table {
	t, _ := s.Table("")
	return t
}

func (s *Store) tableLocked(id string) *table.Table {
	if id == "" {
		id = s.state.ActiveTableID
	}
	for _, t := range s.state.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) activeTableLocked() *table.Table {
	return s.tableLocked(s.state.ActiveTableID)
}

// AddTable appends a new blank table and makes it active. Returns its id.
func (s *Store) AddTable(name string) string {
	t := table.BlankTable(name)
	s.mu.Lock()
	s.state.Tables = append(s.state.Tables, t)
	s.state.ActiveTableID = t.ID
	s.mu.Unlock()
	s.logger.Debug("table added", "table", t.ID, "name", t.Name)
	s.notify()
	return t.ID
}

// RenameTable sets the table's display name. No-op on unknown id.
func (s *Store) RenameTable(id, name string) {
	s.mu.Lock()
	t := s.tableLocked(id)
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.Name = name
	s.mu.Unlock()
	s.notify()
}

// SwitchTable activates the table with the given id. No-op on unknown id.
func (s *Store) SwitchTable(id string) {
	s.mu.Lock()
	if s.tableLocked(id) == nil {
		s.mu.Unlock()
		return
	}
	s.state.ActiveTableID = id
	s.mu.Unlock()
	s.notify()
}

// DeleteTable removes a table. The workbook always keeps at least one table:
// deleting the last remaining one is a no-op. Deleting the active table
// activates the first remaining table.
func (s *Store) DeleteTable(id string) {
	s.mu.Lock()
	next := make([]*table.Table, 0, len(s.state.Tables))
	for _, t := range s.state.Tables {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == 0 || len(next) == len(s.state.Tables) {
		s.mu.Unlock()
		return
	}
	s.state.Tables = next
	if s.state.ActiveTableID == id {
		s.state.ActiveTableID = next[0].ID
	}
	s.mu.Unlock()
	s.notify()
}

// ClearScope selects how much Clear discards.
type ClearScope string

const (
	// ClearThis resets the active table to a fresh blank table (new id),
	// keeping the other tables.
	ClearThis ClearScope = "this"
	// ClearAll discards the whole workbook and starts over from defaults.
	ClearAll ClearScope = "all"
)

// Clear resets the active table or the entire workbook.
func (s *Store) Clear(scope ClearScope) {
	s.mu.Lock()
	switch scope {
	case ClearAll:
		scheme := s.state.ColorScheme
		s.state = initialState()
		s.state.ColorScheme = scheme
	default:
		fresh := table.BlankTable("")
		for i, t := range s.state.Tables {
			if t.ID == s.state.ActiveTableID {
				fresh.Name = t.Name
				s.state.Tables[i] = fresh
				s.state.ActiveTableID = fresh.ID
				break
			}
		}
	}
	s.selection = nil
	s.mu.Unlock()
	s.notify()
}

// Selection returns the current transient selection keys.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selection...)
}

// SetSelection replaces the selection.
func (s *Store) SetSelection(keys []string) {
	s.mu.Lock()
	s.selection = append([]string(nil), keys...)
	s.mu.Unlock()
	s.notify()
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() {
	s.SetSelection(nil)
}
