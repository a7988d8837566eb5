package engine

import (
	"strings"

	"github.com/leapstack-labs/leaptable/internal/backend"
	"github.com/leapstack-labs/leaptable/internal/table"
)

// classifyEntities splits a response's entity-resolution records between the
// column and the global rules. A record belongs to a global rule when one of
// the rule's options occurs in the record's original text, case-insensitively;
// the first matching resolve-entity rule owns it. Everything else is
// column-scoped.
func classifyEntities(wire []backend.ResolvedEntity, column *table.Column, globalRules []*table.GlobalRule) ([]table.ResolvedEntity, map[string][]table.ResolvedEntity) {
	var columnEntities []table.ResolvedEntity
	var globalEntities map[string][]table.ResolvedEntity

	for _, w := range wire {
		if rule := owningGlobalRule(string(w.Original), globalRules); rule != nil {
			if globalEntities == nil {
				globalEntities = make(map[string][]table.ResolvedEntity)
			}
			globalEntities[rule.ID] = append(globalEntities[rule.ID], table.ResolvedEntity{
				Original:   string(w.Original),
				Resolved:   string(w.Resolved),
				FullAnswer: string(w.FullAnswer),
				EntityType: "global",
				Source:     table.EntitySource{Type: table.EntitySourceGlobal, ID: rule.ID},
			})
			continue
		}
		columnEntities = append(columnEntities, table.ResolvedEntity{
			Original:   string(w.Original),
			Resolved:   string(w.Resolved),
			FullAnswer: string(w.FullAnswer),
			EntityType: column.EntityType,
			Source:     table.EntitySource{Type: table.EntitySourceColumn, ID: column.ID},
		})
	}
	return columnEntities, globalEntities
}

func owningGlobalRule(original string, globalRules []*table.GlobalRule) *table.GlobalRule {
	lowered := strings.ToLower(original)
	for _, rule := range globalRules {
		if rule.Type != table.RuleResolveEntity {
			continue
		}
		for _, option := range rule.Options {
			if option != "" && strings.Contains(lowered, strings.ToLower(option)) {
				return rule
			}
		}
	}
	return nil
}
