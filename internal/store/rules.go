package store

import (
	"github.com/leapstack-labs/leaptable/internal/table"
)

// GlobalRuleInput is a global rule before the store assigns it an id.
type GlobalRuleInput struct {
	EntityType string         `json:"entityType"`
	Type       table.RuleType `json:"type"`
	Options    []string       `json:"options,omitempty"`
	Length     int            `json:"length,omitempty"`
}

// AddGlobalRules appends rules to the active table, assigning ids.
// Returns the assigned ids in order.
func (s *Store) AddGlobalRules(inputs []GlobalRuleInput) []string {
	if len(inputs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(inputs))
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return nil
	}
	for _, in := range inputs {
		rule := &table.GlobalRule{
			ID:         table.NewID(),
			EntityType: in.EntityType,
			Rule: table.Rule{
				Type:    in.Type,
				Options: append([]string(nil), in.Options...),
				Length:  in.Length,
			},
		}
		t.GlobalRules = append(t.GlobalRules, rule)
		ids = append(ids, rule.ID)
	}
	s.mu.Unlock()
	s.notify()
	return ids
}

// GlobalRulePatch is a partial global-rule edit.
type GlobalRulePatch struct {
	EntityType *string
	Type       *table.RuleType
	Options    *[]string
	Length     *int
}

// EditGlobalRule merges the patch into the rule. No-op on unknown id.
func (s *Store) EditGlobalRule(id string, patch GlobalRulePatch) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, rule := range t.GlobalRules {
		if rule.ID != id {
			continue
		}
		if patch.EntityType != nil {
			rule.EntityType = *patch.EntityType
		}
		if patch.Type != nil && patch.Type.Valid() {
			rule.Type = *patch.Type
		}
		if patch.Options != nil {
			rule.Options = append([]string(nil), (*patch.Options)...)
		}
		if patch.Length != nil {
			rule.Length = *patch.Length
		}
		break
	}
	s.mu.Unlock()
	s.notify()
}

// DeleteGlobalRules removes the rules with the given ids; nil removes all.
func (s *Store) DeleteGlobalRules(ids []string) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	if ids == nil {
		t.GlobalRules = []*table.GlobalRule{}
	} else {
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		next := make([]*table.GlobalRule, 0, len(t.GlobalRules))
		for _, rule := range t.GlobalRules {
			if !drop[rule.ID] {
				next = append(next, rule)
			}
		}
		t.GlobalRules = next
	}
	s.mu.Unlock()
	s.notify()
}

// FilterInput is a filter before the store assigns it an id.
type FilterInput struct {
	ColumnID string               `json:"columnId"`
	Criteria table.FilterCriteria `json:"criteria"`
	Value    string               `json:"value"`
}

// AddFilter appends a filter and synchronously re-applies row visibility.
func (s *Store) AddFilter(in FilterInput) string {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return ""
	}
	f := &table.Filter{
		ID:       table.NewID(),
		ColumnID: in.ColumnID,
		Criteria: in.Criteria,
		Value:    in.Value,
	}
	t.Filters = append(t.Filters, f)
	t.ApplyFilters()
	s.mu.Unlock()
	s.notify()
	return f.ID
}

// FilterPatch is a partial filter edit.
type FilterPatch struct {
	ColumnID *string
	Criteria *table.FilterCriteria
	Value    *string
}

// EditFilter merges the patch into the filter and re-applies visibility.
func (s *Store) EditFilter(id string, patch FilterPatch) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, f := range t.Filters {
		if f.ID != id {
			continue
		}
		if patch.ColumnID != nil {
			f.ColumnID = *patch.ColumnID
		}
		if patch.Criteria != nil {
			f.Criteria = *patch.Criteria
		}
		if patch.Value != nil {
			f.Value = *patch.Value
		}
		break
	}
	t.ApplyFilters()
	s.mu.Unlock()
	s.notify()
}

// DeleteFilters removes the filters with the given ids (nil removes all) and
// re-applies visibility.
func (s *Store) DeleteFilters(ids []string) {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	if ids == nil {
		t.Filters = []*table.Filter{}
	} else {
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		next := make([]*table.Filter, 0, len(t.Filters))
		for _, f := range t.Filters {
			if !drop[f.ID] {
				next = append(next, f)
			}
		}
		t.Filters = next
	}
	t.ApplyFilters()
	s.mu.Unlock()
	s.notify()
}

// ApplyFilters recomputes row visibility for the active table.
func (s *Store) ApplyFilters() {
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.ApplyFilters()
	s.mu.Unlock()
	s.notify()
}
