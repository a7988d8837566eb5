package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptable/internal/backend"
	"github.com/leapstack-labs/leaptable/internal/table"
)

func TestClassifyEntities(t *testing.T) {
	column := &table.Column{ID: "col1", EntityType: "Company"}
	rules := []*table.GlobalRule{
		{
			ID:         "rule1",
			EntityType: "Company",
			Rule:       table.Rule{Type: table.RuleResolveEntity, Options: []string{"ACME"}},
		},
		{
			ID:         "rule2",
			EntityType: "Company",
			Rule:       table.Rule{Type: table.RuleResolveEntity, Options: []string{"acme corp", "globex"}},
		},
		{
			// Non-resolve rules never own records even when their options match.
			ID:         "rule3",
			EntityType: "Company",
			Rule:       table.Rule{Type: table.RuleMustReturn, Options: []string{"Initech"}},
		},
	}

	wire := []backend.ResolvedEntity{
		{Original: "Acme Corp.", Resolved: "ACME Corporation"},
		{Original: "Globex Inc", Resolved: "Globex"},
		{Original: "Initech LLC", Resolved: "Initech"},
	}

	columnEntities, globalEntities := classifyEntities(wire, column, rules)

	// "Acme Corp." matches rule1's option first; rule2 also matches but the
	// first resolve rule owns the record.
	require.Contains(t, globalEntities, "rule1")
	require.Len(t, globalEntities["rule1"], 1)
	first := globalEntities["rule1"][0]
	assert.Equal(t, "Acme Corp.", first.Original)
	assert.Equal(t, "ACME Corporation", first.Resolved)
	assert.Equal(t, "global", first.EntityType)
	assert.Equal(t, table.EntitySource{Type: table.EntitySourceGlobal, ID: "rule1"}, first.Source)

	require.Contains(t, globalEntities, "rule2")
	assert.Equal(t, "Globex Inc", globalEntities["rule2"][0].Original)

	// The Initech record falls through to the column.
	require.Len(t, columnEntities, 1)
	got := columnEntities[0]
	assert.Equal(t, "Initech LLC", got.Original)
	assert.Equal(t, "Company", got.EntityType)
	assert.Equal(t, table.EntitySource{Type: table.EntitySourceColumn, ID: "col1"}, got.Source)
}

func TestClassifyEntities_NoRules(t *testing.T) {
	column := &table.Column{ID: "col1", EntityType: "Name"}
	columnEntities, globalEntities := classifyEntities([]backend.ResolvedEntity{
		{Original: "J. Doe", Resolved: "Jane Doe"},
	}, column, nil)

	assert.Len(t, columnEntities, 1)
	assert.Nil(t, globalEntities)
}

func TestOwningGlobalRule_EmptyOptionNeverMatches(t *testing.T) {
	rules := []*table.GlobalRule{{
		ID:         "rule1",
		EntityType: "Name",
		Rule:       table.Rule{Type: table.RuleResolveEntity, Options: []string{""}},
	}}
	assert.Nil(t, owningGlobalRule("anything", rules))
}
