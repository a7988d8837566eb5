package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptable/internal/backend"
	"github.com/leapstack-labs/leaptable/internal/config"
	"github.com/leapstack-labs/leaptable/internal/engine"
	"github.com/leapstack-labs/leaptable/internal/snapshot"
	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
	"github.com/leapstack-labs/leaptable/internal/ui"
	"github.com/leapstack-labs/leaptable/internal/ui/notifier"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the leaptable server",
		Long: `Start the JSON API server the grid client talks to.

The last saved workbook is loaded at start; every change is persisted after a
short quiet window and flushed on shutdown.`,
		Example: `  # Start on the default port
  leaptable serve

  # Custom backend and port
  leaptable serve --backend-url http://extraction:8000 --port 9000`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFromContext(cmd.Context())

	snapStore, err := openSnapshotStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = snapStore.Close() }()

	state, err := snapStore.Load()
	if err != nil {
		return fmt.Errorf("load workbook: %w", err)
	}
	if state == nil {
		state = freshState()
	}

	notify := notifier.New()
	st := store.New(store.Config{Initial: state, Logger: logger})
	saver := snapshot.NewSaver(st, snapStore, time.Duration(cfg.SaveDebounceMS)*time.Millisecond, logger)
	st.SetOnChange(func() {
		notify.Broadcast()
		saver.Trigger()
	})
	defer saver.Close()

	client := backend.NewHTTPClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: time.Duration(cfg.BackendTimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	eng := engine.New(engine.Config{
		Store:       st,
		Client:      client,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	buffer := store.NewEditBuffer(st, time.Duration(cfg.EditFlushMS)*time.Millisecond)
	defer buffer.Close()

	server := ui.NewServer(ui.Config{
		Store:    st,
		Engine:   eng,
		Buffer:   buffer,
		Notifier: notify,
		Port:     cfg.Port,
		WatchDir: cfg.WatchDir,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// freshState is the first-run workbook: one blank table, colour scheme
// matched to the terminal background.
func freshState() *store.State {
	scheme := store.ColorSchemeLight
	if termenv.HasDarkBackground() {
		scheme = store.ColorSchemeDark
	}
	t := table.BlankTable("")
	return &store.State{
		ColorScheme:   scheme,
		Tables:        []*table.Table{t},
		ActiveTableID: t.ID,
	}
}

// openSnapshotStore opens and migrates the snapshot database from the
// configured path.
func openSnapshotStore(cfg *config.Config) (*snapshot.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.SnapshotPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	snapStore := snapshot.NewSQLiteStore(nil)
	if err := snapStore.Open(cfg.SnapshotPath); err != nil {
		return nil, err
	}
	if err := snapStore.Migrate(); err != nil {
		_ = snapStore.Close()
		return nil, err
	}
	return snapStore, nil
}
