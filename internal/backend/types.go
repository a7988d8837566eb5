// Package backend is the boundary to the extraction service: document
// upload/delete, query execution and triple export. The core consumes it
// through the Client interface; everything behind the HTTP calls is the
// service's concern.
package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// SentinelDocumentID is sent in place of a document reference when a query
// runs for a row with no attached document.
const SentinelDocumentID = "ffffffffffffffffffffffffffffffff"

// Prompt is the effective column prompt shipped with a query: the column's
// identity plus its query text after reference substitution, and the merged
// column+global rule list (global rules contribute their bare Rule, with id
// and entity type stripped).
type Prompt struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	Query      string          `json:"query"`
	Type       table.ValueType `json:"type"`
	Rules      []table.Rule    `json:"rules"`
}

// QueryRequest is the run-query payload.
type QueryRequest struct {
	DocumentID string `json:"document_id"`
	Prompt     Prompt `json:"prompt"`
}

// Answer wraps the typed answer value.
type Answer struct {
	Answer table.Value `json:"answer"`
}

// FlexString decodes a wire field that may be a string or a list of strings;
// lists join with a single space.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = FlexString(strings.Join(list, " "))
		return nil
	}
	return fmt.Errorf("flex string: unsupported shape %s", string(data))
}

// ResolvedEntity is the wire form of an entity-resolution record.
type ResolvedEntity struct {
	Original   FlexString `json:"original"`
	Resolved   FlexString `json:"resolved"`
	FullAnswer FlexString `json:"fullAnswer,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
}

// QueryResponse is the run-query result.
type QueryResponse struct {
	Answer           Answer           `json:"answer"`
	Chunks           []table.Chunk    `json:"chunks"`
	ResolvedEntities []ResolvedEntity `json:"resolvedEntities,omitempty"`
}

// MergeRules builds a prompt's rule list: the column's own rules followed by
// every global rule whose entity type matches the column's.
func MergeRules(column *table.Column, globalRules []*table.GlobalRule) []table.Rule {
	rules := append([]table.Rule(nil), column.Rules...)
	for _, g := range globalRules {
		if table.EntityTypeEqual(g.EntityType, column.EntityType) {
			rules = append(rules, g.Rule)
		}
	}
	return rules
}
