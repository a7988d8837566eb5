package store

import (
	"strings"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// RerunTarget is one eligible recompute target, captured as deep copies so
// the engine's query substitution can never mutate the stored column.
type RerunTarget struct {
	Ref    table.CellRef
	Key    string
	Column *table.Column
	Row    *table.Row
}

// RerunBatch is the consistent snapshot the engine works from: every target
// was marked loading in the same state transition that produced the copies.
type RerunBatch struct {
	TableID     string
	Targets     []RerunTarget
	Columns     []*table.Column
	GlobalRules []*table.GlobalRule
}

// BeginRerun filters the requested targets down to the eligible ones and
// marks them loading in one batch. A target is eligible iff its column and
// row exist, the column has a non-blank entity type, the column is generated,
// and the cell is not already loading — the loading check is what suppresses
// a concurrent rerun of the same cell. Ineligible targets are dropped
// silently.
//
// Unless the batch is for brand-new rows (rows with no computed cells yet),
// stale resolved-entity audit records are pruned first: column-scoped records
// whose source column is being recomputed, and all global-scoped records.
func (s *Store) BeginRerun(tableID string, refs []table.CellRef) RerunBatch {
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return RerunBatch{}
	}
	batch := RerunBatch{TableID: t.ID}

	isNewRow := false
	for _, ref := range refs {
		if row := t.RowByID(ref.RowID); row != nil && len(row.Cells) == 0 {
			isNewRow = true
			break
		}
	}
	if !isNewRow && len(refs) > 0 {
		pruneResolvedEntities(t, refs)
	}

	for _, ref := range refs {
		key := ref.Key()
		column := t.ColumnByID(ref.ColumnID)
		row := t.RowByID(ref.RowID)
		if column == nil || row == nil {
			continue
		}
		if strings.TrimSpace(column.EntityType) == "" || !column.Generate {
			continue
		}
		if t.LoadingCells[key] {
			continue
		}
		t.LoadingCells[key] = true
		batch.Targets = append(batch.Targets, RerunTarget{
			Ref:    ref,
			Key:    key,
			Column: column.Clone(),
			Row:    row.Clone(),
		})
	}

	if len(batch.Targets) > 0 {
		batch.Columns = make([]*table.Column, len(t.Columns))
		for i, c := range t.Columns {
			batch.Columns[i] = c.Clone()
		}
		batch.GlobalRules = make([]*table.GlobalRule, len(t.GlobalRules))
		for i, g := range t.GlobalRules {
			batch.GlobalRules[i] = g.Clone()
		}
	}
	s.mu.Unlock()
	if len(batch.Targets) > 0 {
		s.notify()
	}
	return batch
}

// pruneResolvedEntities drops audit records invalidated by a rerun: a
// column-scoped record whose source column is among the targets is about to
// be recomputed, and global-scoped records are invalidated by any rerun.
func pruneResolvedEntities(t *table.Table, refs []table.CellRef) {
	rerunColumns := make(map[string]bool, len(refs))
	for _, ref := range refs {
		rerunColumns[ref.ColumnID] = true
	}
	for _, col := range t.Columns {
		kept := col.ResolvedEntities[:0]
		for _, e := range col.ResolvedEntities {
			if e.Source.Type == table.EntitySourceColumn && rerunColumns[e.Source.ID] {
				continue
			}
			kept = append(kept, e)
		}
		col.ResolvedEntities = kept
	}
	for _, rule := range t.GlobalRules {
		kept := rule.ResolvedEntities[:0]
		for _, e := range rule.ResolvedEntities {
			if e.Source.Type == table.EntitySourceGlobal {
				continue
			}
			kept = append(kept, e)
		}
		rule.ResolvedEntities = kept
	}
}

// FinishLoading clears a cell's loading flag without writing a value: the
// skip path, and the failure path (a failed request must never leave a cell
// permanently loading).
func (s *Store) FinishLoading(tableID string, ref table.CellRef) {
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	delete(t.LoadingCells, ref.Key())
	s.mu.Unlock()
	s.notify()
}

// QueryOutcome is everything a resolved backend response writes back.
type QueryOutcome struct {
	Ref            table.CellRef
	Answer         table.Value
	Chunks         []table.Chunk
	ColumnEntities []table.ResolvedEntity
	// GlobalEntities maps global rule id to the records it owns.
	GlobalEntities map[string][]table.ResolvedEntity
}

// ApplyQueryOutcome reconciles one response atomically: the answer lands in
// the cell, the chunks are stored under the cell key, the loading flag is
// cleared and the resolved-entity records are appended to their owners. A
// row or column deleted while the request was in flight turns the write into
// a no-op (the loading key is already gone in that case).
func (s *Store) ApplyQueryOutcome(tableID string, out QueryOutcome) {
	s.mu.Lock()
	t := s.tableLocked(tableID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	key := out.Ref.Key()
	delete(t.LoadingCells, key)

	row := t.RowByID(out.Ref.RowID)
	column := t.ColumnByID(out.Ref.ColumnID)
	if row != nil && column != nil {
		row.SetCell(column.ID, out.Answer)
		t.Chunks[key] = append([]table.Chunk(nil), out.Chunks...)
	}
	if column != nil && len(out.ColumnEntities) > 0 {
		column.ResolvedEntities = append(column.ResolvedEntities, out.ColumnEntities...)
	}
	for ruleID, entities := range out.GlobalEntities {
		for _, rule := range t.GlobalRules {
			if rule.ID == ruleID {
				rule.ResolvedEntities = append(rule.ResolvedEntities, entities...)
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify()
}

// UndoResolvedEntity reverses a recorded substitution: every cell value that
// textually contains the resolved text gets it replaced with the original
// text (strings and string arrays both), then the record is removed from its
// owning column or global rule. Best-effort: a resolved text recurring
// coincidentally in unrelated cells is replaced too.
func (s *Store) UndoResolvedEntity(entity table.ResolvedEntity) {
	if entity.Resolved == "" {
		return
	}
	s.mu.Lock()
	t := s.activeTableLocked()
	if t == nil {
		s.mu.Unlock()
		return
	}
	for _, row := range t.Rows {
		for columnID, value := range row.Cells {
			if replaced, changed := replaceInValue(value, entity.Resolved, entity.Original); changed {
				row.SetCell(columnID, replaced)
			}
		}
	}
	match := func(e table.ResolvedEntity) bool {
		return e.Source == entity.Source && e.Original == entity.Original && e.Resolved == entity.Resolved
	}
	switch entity.Source.Type {
	case table.EntitySourceColumn:
		if col := t.ColumnByID(entity.Source.ID); col != nil {
			col.ResolvedEntities = removeEntity(col.ResolvedEntities, match)
		}
	case table.EntitySourceGlobal:
		for _, rule := range t.GlobalRules {
			if rule.ID == entity.Source.ID {
				rule.ResolvedEntities = removeEntity(rule.ResolvedEntities, match)
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify()
}

func replaceInValue(v table.Value, resolved, original string) (table.Value, bool) {
	switch v.Kind() {
	case table.KindStr:
		s, _ := v.StrVal()
		if strings.Contains(s, resolved) {
			return table.Str(strings.ReplaceAll(s, resolved, original)), true
		}
	case table.KindStrArray:
		elems, _ := v.StrArrayVal()
		changed := false
		out := make([]string, len(elems))
		for i, e := range elems {
			if strings.Contains(e, resolved) {
				out[i] = strings.ReplaceAll(e, resolved, original)
				changed = true
			} else {
				out[i] = e
			}
		}
		if changed {
			return table.StrArray(out), true
		}
	}
	return v, false
}

func removeEntity(entities []table.ResolvedEntity, match func(table.ResolvedEntity) bool) []table.ResolvedEntity {
	kept := entities[:0]
	for _, e := range entities {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
