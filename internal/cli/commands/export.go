package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptable/internal/backend"
	"github.com/leapstack-labs/leaptable/internal/config"
	"github.com/leapstack-labs/leaptable/internal/engine"
	"github.com/leapstack-labs/leaptable/internal/store"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active table as triples",
		Long: `Ship the saved workbook's active table to the extraction service's
triple-export endpoint and write the returned blob.`,
		Example: `  # Export to triples.json
  leaptable export

  # Export to stdout
  leaptable export --out -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "triples.json", `Output file ("-" for stdout)`)

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFromContext(cmd.Context())

	state, err := loadSavedState(cfg)
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("no saved workbook to export")
	}

	st := store.New(store.Config{Initial: state, Logger: logger})
	client := backend.NewHTTPClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: time.Duration(cfg.BackendTimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	eng := engine.New(engine.Config{Store: st, Client: client, Logger: logger})

	blob, err := eng.ExportTriples(cmd.Context())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if opts.Out == "-" {
		_, err = cmd.OutOrStdout().Write(blob)
		return err
	}
	if err := os.WriteFile(opts.Out, blob, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d bytes to %s\n", len(blob), opts.Out)
	return nil
}
