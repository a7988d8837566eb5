package engine

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// Column-reference tokens. The structured mention form @[label](columnId)
// references a column by id; the brace form {EntityType} references it by
// entity-type name. Both survived different iterations of the query editor,
// so both are honoured.
var (
	mentionToken = regexp.MustCompile(`@\[[^\]]+\]\(([^)]+)\)`)
	braceToken   = regexp.MustCompile(`\{([^{}]+)\}`)
)

// EffectiveQuery resolves a column's query template against the row: every
// reference to another column is replaced with the row's current value for
// that column, in place. The stored column is never touched; the result is a
// fresh string.
//
// The second return reports whether the target is answerable now: a
// referenced value that is absent on a row with no attached document, or a
// reference-free query on a document-less row, cannot produce an answer and
// should be skipped without a backend call.
func EffectiveQuery(column *table.Column, row *table.Row, columns []*table.Column) (string, bool) {
	query := column.Query
	hasReference := false
	answerable := true

	query = mentionToken.ReplaceAllStringFunc(query, func(match string) string {
		hasReference = true
		columnID := mentionToken.FindStringSubmatch(match)[1]
		target := columnByID(columns, columnID)
		if target == nil {
			return match
		}
		cell := row.Cell(target.ID)
		if cell.IsNil() && row.Source == nil {
			answerable = false
			return match
		}
		return cell.String()
	})

	query = braceToken.ReplaceAllStringFunc(query, func(match string) string {
		name := braceToken.FindStringSubmatch(match)[1]
		target := columnByEntityType(columns, name)
		if target == nil {
			// Braces show up in ordinary prose; only a known entity type
			// makes one a reference.
			return match
		}
		hasReference = true
		cell := row.Cell(target.ID)
		if cell.IsNil() && row.Source == nil {
			answerable = false
			return match
		}
		return cell.String()
	})

	if !hasReference && row.Source == nil {
		answerable = false
	}
	return query, answerable
}

func columnByID(columns []*table.Column, id string) *table.Column {
	for _, c := range columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func columnByEntityType(columns []*table.Column, name string) *table.Column {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for _, c := range columns {
		if table.EntityTypeEqual(c.EntityType, name) {
			return c
		}
	}
	return nil
}
