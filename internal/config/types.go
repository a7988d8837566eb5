// Package config provides configuration management for the leaptable CLI and
// server. Precedence, highest to lowest: flags > environment variables >
// config file > defaults.
package config

// Config holds all configuration options.
type Config struct {
	// BackendURL is the extraction service root, e.g. "http://localhost:8000".
	BackendURL string `koanf:"backend_url"`
	// BackendTimeoutSeconds bounds each extraction request; 0 disables.
	BackendTimeoutSeconds int `koanf:"backend_timeout_seconds"`
	// Port is the UI server port.
	Port int `koanf:"port"`
	// SnapshotPath is the SQLite file holding the persisted workbook.
	SnapshotPath string `koanf:"snapshot_path"`
	// SaveDebounceMS is the quiet window before a state change is persisted.
	SaveDebounceMS int `koanf:"save_debounce_ms"`
	// EditFlushMS is the quiet window before buffered cell edits commit.
	EditFlushMS int `koanf:"edit_flush_ms"`
	// Concurrency bounds in-flight extraction queries per rerun.
	Concurrency int `koanf:"concurrency"`
	// WatchDir, when set, is watched for dropped files which are uploaded
	// into the active table.
	WatchDir string `koanf:"watch_dir"`
	Verbose  bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultBackendURL            = "http://localhost:8000"
	DefaultBackendTimeoutSeconds = 120
	DefaultPort                  = 8642
	DefaultSnapshotPath          = ".leaptable/state.db"
	DefaultSaveDebounceMS        = 2000
	DefaultEditFlushMS           = 500
	DefaultConcurrency           = 8
)
