// Package snapshot persists the full application state to SQLite: one
// versioned JSON blob, rewritten on every save. A snapshot carrying a schema
// version other than the current one is discarded on load rather than
// migrated; the document store remains the source of truth for documents.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/leaptable/internal/store"
)

// SQLiteStore persists state snapshots in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new snapshot store instance. Logger may be nil.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the SQLite database. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save rewrites the persisted snapshot with the given state.
func (s *SQLiteStore) Save(state *store.State) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (id, version, payload, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET version = excluded.version, payload = excluded.payload, saved_at = excluded.saved_at`,
		store.SchemaVersion, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted state, or nil when none exists. A snapshot
// written under a different schema version is discarded, not migrated: the
// caller starts from a blank state.
func (s *SQLiteStore) Load() (*store.State, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var version int
	var payload string
	err := s.db.QueryRow(`SELECT version, payload FROM snapshots WHERE id = 1`).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if version != store.SchemaVersion {
		s.logger.Warn("discarding snapshot with stale schema version", "have", version, "want", store.SchemaVersion)
		return nil, nil
	}

	var state store.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &state, nil
}
