package rulecsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"rule_type,value,entity_type",
		"must_return,ACME; Globex ;Initech,Company",
		"max_length,30,Summary",
		"",
		"resolve_entity,alice,Name",
	}, "\n")

	rules, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, store.GlobalRuleInput{
		EntityType: "Company",
		Type:       table.RuleMustReturn,
		Options:    []string{"ACME", "Globex", "Initech"},
	}, rules[0])
	assert.Equal(t, store.GlobalRuleInput{
		EntityType: "Summary",
		Type:       table.RuleMaxLength,
		Length:     30,
	}, rules[1])
	assert.Equal(t, store.GlobalRuleInput{
		EntityType: "Name",
		Type:       table.RuleResolveEntity,
		Options:    []string{"alice"},
	}, rules[2])
}

func TestParse_NoHeader(t *testing.T) {
	rules, err := Parse(strings.NewReader("may_return,a;b,Tag\n"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, table.RuleMayReturn, rules[0].Type)
	assert.Equal(t, []string{"a", "b"}, rules[0].Options)
}

func TestParse_HeaderOnlyOnFirstLine(t *testing.T) {
	// "rule_type" past line 1 is data and fails validation instead of being
	// silently skipped.
	input := "must_return,x,Tag\nrule_type,value,entity_type\n"
	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParse_Empty(t *testing.T) {
	rules, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rules)

	rules, err = Parse(strings.NewReader("rule_type,value,entity_type\n"))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unknown rule type", "bogus,x,Tag\n", `unknown rule type "bogus"`},
		{"too few fields", "must_return,x\n", "want 3 fields"},
		{"bad max_length", "max_length,lots,Summary\n", "not an integer"},
		{"line number reported", "must_return,x,Tag\nbogus,y,Tag\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_DropsEmptyOptions(t *testing.T) {
	rules, err := Parse(strings.NewReader("must_return,a;;  ;b,Tag\n"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"a", "b"}, rules[0].Options)
}
