package table

// RuleType tags the rule union.
type RuleType string

const (
	RuleMustReturn    RuleType = "must_return"
	RuleMayReturn     RuleType = "may_return"
	RuleMaxLength     RuleType = "max_length"
	RuleResolveEntity RuleType = "resolve_entity"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	switch t {
	case RuleMustReturn, RuleMayReturn, RuleMaxLength, RuleResolveEntity:
		return true
	}
	return false
}

// Rule is a validation/shaping constraint attached to a column's prompt.
// Options applies to must_return/may_return/resolve_entity, Length to
// max_length.
type Rule struct {
	Type    RuleType `json:"type"`
	Options []string `json:"options,omitempty"`
	Length  int      `json:"length,omitempty"`
}

// GlobalRule is a rule applied to every column whose entity type matches.
type GlobalRule struct {
	ID         string `json:"id"`
	EntityType string `json:"entityType"`
	Rule
	ResolvedEntities []ResolvedEntity `json:"resolvedEntities,omitempty"`
}

// EntitySourceColumn and EntitySourceGlobal scope a resolved-entity record to
// the column or global rule that produced it.
const (
	EntitySourceColumn = "column"
	EntitySourceGlobal = "global"
)

// EntitySource identifies the owner of a resolved-entity audit record.
type EntitySource struct {
	Type string `json:"type"` // "column" or "global"
	ID   string `json:"id"`
}

// ResolvedEntity is an audit record of a value substitution the backend
// performed while answering (e.g. canonicalizing a synonym).
type ResolvedEntity struct {
	Original   string       `json:"original"`
	Resolved   string       `json:"resolved"`
	FullAnswer string       `json:"fullAnswer,omitempty"`
	EntityType string       `json:"entityType"`
	Source     EntitySource `json:"source"`
}

// Column is an entity-type definition: a natural-language extraction question
// applied to every row.
type Column struct {
	ID               string           `json:"id"`
	EntityType       string           `json:"entityType"`
	Query            string           `json:"query"`
	Type             ValueType        `json:"type"`
	Generate         bool             `json:"generate"`
	Rules            []Rule           `json:"rules"`
	Hidden           bool             `json:"hidden"`
	Width            int              `json:"width"`
	ResolvedEntities []ResolvedEntity `json:"resolvedEntities,omitempty"`
}

// Document describes an uploaded source document.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Author    string `json:"author"`
	Tag       string `json:"tag"`
	PageCount int    `json:"page_count"`
}

// SourceData attaches an uploaded document to a row.
type SourceData struct {
	Type     string   `json:"type"` // always "document"
	Document Document `json:"document"`
}

// Row is one document (or blank placeholder) plus its computed cell values.
// Cells maps column id to value; a missing key means never computed, a null
// value is an explicit "not found" answer.
type Row struct {
	ID     string           `json:"id"`
	Source *SourceData      `json:"sourceData"`
	Hidden bool             `json:"hidden"`
	Cells  map[string]Value `json:"cells"`
}

// FilterCriteria selects the polarity of a filter predicate.
type FilterCriteria string

const (
	FilterContains    FilterCriteria = "contains"
	FilterContainsNot FilterCriteria = "contains_not"
)

// Filter is a per-column substring predicate; all active filters AND together
// to decide row visibility.
type Filter struct {
	ID       string         `json:"id"`
	ColumnID string         `json:"columnId"`
	Criteria FilterCriteria `json:"criteria"`
	Value    string         `json:"value"`
}

// Chunk is a source excerpt cited as evidence for an answer.
type Chunk struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
}

// Table is one workbook sheet: ordered columns and rows plus the per-sheet
// rule, filter, citation and transient loading state.
type Table struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Columns        []*Column          `json:"columns"`
	Rows           []*Row             `json:"rows"`
	GlobalRules    []*GlobalRule      `json:"globalRules"`
	Filters        []*Filter          `json:"filters"`
	Chunks         map[string][]Chunk `json:"chunks"`
	OpenedChunks   []string           `json:"openedChunks"`
	LoadingCells   map[string]bool    `json:"loadingCells"`
	UploadingFiles bool               `json:"uploadingFiles"`
}

// ColumnByID returns the column with the given id, or nil.
func (t *Table) ColumnByID(id string) *Column {
	for _, c := range t.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RowByID returns the row with the given id, or nil.
func (t *Table) RowByID(id string) *Row {
	for _, r := range t.Rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Cell returns the row's value for a column; a missing entry is absent.
func (r *Row) Cell(columnID string) Value {
	if r.Cells == nil {
		return Absent()
	}
	return r.Cells[columnID]
}

// SetCell writes a value into the row, dropping the entry when absent so the
// never-computed/null distinction survives serialization.
func (r *Row) SetCell(columnID string, v Value) {
	if r.Cells == nil {
		r.Cells = make(map[string]Value)
	}
	if v.IsAbsent() {
		delete(r.Cells, columnID)
		return
	}
	r.Cells[columnID] = v
}
