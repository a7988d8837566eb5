// Package rulecsv imports global rules from CSV. The expected shape is one
// rule per record: rule_type, value, entity_type. The value field packs the
// rule's payload: option lists separated by ";", a bare integer for
// max_length.
package rulecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
)

// OptionSeparator splits option lists inside the value field.
const OptionSeparator = ";"

// Parse reads global-rule records from r. A header row is detected by its
// first field literally being "rule_type" and skipped. Blank lines are
// ignored; a malformed record aborts the import with its line number.
func Parse(r io.Reader) ([]store.GlobalRuleInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rules []store.GlobalRuleInput
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rules csv: %w", err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "rule_type") {
			continue
		}
		rule, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("rules csv line %d: %w", line, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRecord(record []string) (store.GlobalRuleInput, error) {
	if len(record) < 3 {
		return store.GlobalRuleInput{}, fmt.Errorf("want 3 fields (rule_type, value, entity_type), got %d", len(record))
	}
	ruleType := table.RuleType(strings.TrimSpace(record[0]))
	if !ruleType.Valid() {
		return store.GlobalRuleInput{}, fmt.Errorf("unknown rule type %q", record[0])
	}
	value := strings.TrimSpace(record[1])
	entityType := strings.TrimSpace(record[2])

	rule := store.GlobalRuleInput{EntityType: entityType, Type: ruleType}
	switch ruleType {
	case table.RuleMaxLength:
		length, err := strconv.Atoi(value)
		if err != nil {
			return store.GlobalRuleInput{}, fmt.Errorf("max_length value %q is not an integer", value)
		}
		rule.Length = length
	default:
		for _, option := range strings.Split(value, OptionSeparator) {
			if option = strings.TrimSpace(option); option != "" {
				rule.Options = append(rule.Options, option)
			}
		}
	}
	return rule, nil
}
