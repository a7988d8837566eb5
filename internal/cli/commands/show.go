package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptable/internal/config"
	tbl "github.com/leapstack-labs/leaptable/internal/table"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	TableID string
	All     bool
	Format  string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved workbook",
		Long: `Print the active table of the saved workbook to the terminal.

Hidden rows and columns are skipped unless --all is given.`,
		Example: `  # Show the active table
  leaptable show

  # Show a specific table, including hidden rows and columns
  leaptable show --table 4f2c… --all

  # Machine-readable
  leaptable show --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.TableID, "table", "", "Table id (default: the active table)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Include hidden rows and columns")
	cmd.Flags().StringVar(&opts.Format, "format", "table", "Output format (table|json)")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	cfg := config.FromContext(cmd.Context())

	state, err := loadSavedState(cfg)
	if err != nil {
		return err
	}
	if state == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no saved workbook")
		return nil
	}

	id := opts.TableID
	if id == "" {
		id = state.ActiveTableID
	}
	var target *tbl.Table
	for _, t := range state.Tables {
		if t.ID == id {
			target = t
			break
		}
	}
	if target == nil {
		return fmt.Errorf("table not found: %s", id)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(target)
	}
	renderAnswerTable(cmd.OutOrStdout(), target, opts.All)
	return nil
}

func renderAnswerTable(w io.Writer, t *tbl.Table, all bool) {
	out := termenv.NewOutput(w)
	_, _ = fmt.Fprintln(w, out.String(t.Name).Bold())
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 60))

	var columns []*tbl.Column
	for _, col := range t.Columns {
		if all || !col.Hidden {
			columns = append(columns, col)
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(columns)+1)
	header = append(header, "document")
	for _, col := range columns {
		name := col.EntityType
		if strings.TrimSpace(name) == "" {
			name = "(untitled)"
		}
		header = append(header, name)
	}
	tw.AppendHeader(header)

	shown := 0
	for _, row := range t.Rows {
		if !all && row.Hidden {
			continue
		}
		doc := ""
		if row.Source != nil {
			doc = row.Source.Document.Name
		}
		if doc == "" && len(row.Cells) == 0 {
			continue
		}
		r := make(table.Row, 0, len(columns)+1)
		r = append(r, doc)
		for _, col := range columns {
			r = append(r, formatCell(row.Cell(col.ID)))
		}
		tw.AppendRow(r)
		shown++
	}
	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", shown)
}

func formatCell(v tbl.Value) string {
	if v.IsAbsent() {
		return ""
	}
	if v.IsNil() {
		return "NULL"
	}
	return v.String()
}
