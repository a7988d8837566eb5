package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, DefaultBackendTimeoutSeconds, cfg.BackendTimeoutSeconds)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSnapshotPath, cfg.SnapshotPath)
	assert.Equal(t, DefaultSaveDebounceMS, cfg.SaveDebounceMS)
	assert.Equal(t, DefaultEditFlushMS, cfg.EditFlushMS)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Empty(t, cfg.WatchDir)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaptable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend_url: http://backend:9000\nport: 9999\nverbose: true\n",
	), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.BackendURL)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.Verbose)
	// Keys the file leaves out keep their defaults.
	assert.Equal(t, DefaultSnapshotPath, cfg.SnapshotPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaptable.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9999\n"), 0o644))
	t.Setenv("LEAPTABLE_PORT", "7777")
	t.Setenv("LEAPTABLE_WATCH_DIR", "/drop")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, "/drop", cfg.WatchDir)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("LEAPTABLE_PORT", "7777")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "")
	flags.String("backend-url", DefaultBackendURL, "")
	require.NoError(t, flags.Parse([]string{"--port=1234"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Port)
	// A flag left at its default does not mask the env/file value.
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
}

func TestLoad_UnchangedFlagDoesNotOverride(t *testing.T) {
	t.Setenv("LEAPTABLE_BACKEND_URL", "http://env:8000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend-url", DefaultBackendURL, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000", cfg.BackendURL)
}
