package table

// Deep copies. The store hands snapshots of its state to read layers and the
// recompute engine substitutes into copies of columns; neither may alias the
// owned entities.

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	out := *c
	out.Rules = cloneRules(c.Rules)
	out.ResolvedEntities = append([]ResolvedEntity(nil), c.ResolvedEntities...)
	return &out
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	out := *r
	if r.Source != nil {
		src := *r.Source
		out.Source = &src
	}
	out.Cells = make(map[string]Value, len(r.Cells))
	for k, v := range r.Cells {
		out.Cells[k] = v
	}
	return &out
}

// Clone returns a deep copy of the global rule.
func (g *GlobalRule) Clone() *GlobalRule {
	if g == nil {
		return nil
	}
	out := *g
	out.Options = append([]string(nil), g.Options...)
	out.ResolvedEntities = append([]ResolvedEntity(nil), g.ResolvedEntities...)
	return &out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := *t
	out.Columns = make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone()
	}
	out.Rows = make([]*Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	out.GlobalRules = make([]*GlobalRule, len(t.GlobalRules))
	for i, g := range t.GlobalRules {
		out.GlobalRules[i] = g.Clone()
	}
	out.Filters = make([]*Filter, len(t.Filters))
	for i, f := range t.Filters {
		fc := *f
		out.Filters[i] = &fc
	}
	out.Chunks = make(map[string][]Chunk, len(t.Chunks))
	for k, v := range t.Chunks {
		out.Chunks[k] = append([]Chunk(nil), v...)
	}
	out.OpenedChunks = append([]string(nil), t.OpenedChunks...)
	out.LoadingCells = make(map[string]bool, len(t.LoadingCells))
	for k, v := range t.LoadingCells {
		out.LoadingCells[k] = v
	}
	return &out
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r
		out[i].Options = append([]string(nil), r.Options...)
	}
	return out
}
