package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptable/internal/config"
	"github.com/leapstack-labs/leaptable/internal/rulecsv"
	"github.com/leapstack-labs/leaptable/internal/store"
	tbl "github.com/leapstack-labs/leaptable/internal/table"
)

// NewRulesCommand creates the rules command group.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage global rules of the saved workbook",
	}
	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesImportCommand())
	return cmd
}

func newRulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active table's global rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			state, err := loadSavedState(cfg)
			if err != nil {
				return err
			}
			if state == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no saved workbook")
				return nil
			}
			for _, t := range state.Tables {
				if t.ID != state.ActiveTableID {
					continue
				}
				renderRules(cmd, t.GlobalRules)
				return nil
			}
			return fmt.Errorf("active table not found")
		},
	}
}

func renderRules(cmd *cobra.Command, rules []*tbl.GlobalRule) {
	if len(rules) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no global rules)")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Entity Type", "Rule", "Value", "Resolved"})
	for _, rule := range rules {
		value := strings.Join(rule.Options, rulecsv.OptionSeparator)
		if rule.Type == tbl.RuleMaxLength {
			value = strconv.Itoa(rule.Length)
		}
		tw.AppendRow(table.Row{rule.ID, rule.EntityType, string(rule.Type), value, len(rule.ResolvedEntities)})
	}
	tw.Render()
}

func newRulesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import global rules from a CSV file",
		Long: `Append global rules from a CSV file to the saved workbook's active table.

Expected columns: rule_type, value, entity_type. Option lists in the value
field split on ";"; max_length takes an integer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.LoggerFromContext(cmd.Context())

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			rules, err := rulecsv.Parse(f)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no rules in file")
				return nil
			}

			state, err := loadSavedState(cfg)
			if err != nil {
				return err
			}
			st := store.New(store.Config{Initial: state, Logger: logger})
			ids := st.AddGlobalRules(rules)

			next := st.Snapshot()
			if err := saveState(cfg, &next); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d rules\n", len(ids))
			return nil
		},
	}
}
