// Package engine drives recomputation: it turns rerun requests into backend
// queries, reconciles the responses into the store, and runs the document
// fill and cleanup flows that pair store mutations with backend calls. The
// store stays purely structural; everything that talks to the extraction
// service goes through here.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaptable/internal/backend"
	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
)

const defaultConcurrency = 8

// Config configures the engine.
type Config struct {
	Store  *store.Store
	Client backend.Client
	// Concurrency bounds in-flight queries per rerun call; zero picks a
	// default.
	Concurrency int
	// Logger receives engine logs; nil discards.
	Logger *slog.Logger
}

// Engine coordinates recomputation between the store and the backend.
type Engine struct {
	store       *store.Store
	client      backend.Client
	concurrency int
	logger      *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Engine{
		store:       cfg.Store,
		client:      cfg.Client,
		concurrency: concurrency,
		logger:      logger,
	}
}

// RerunCells recomputes the given cells of the table ("" for the active one).
// Ineligible cells are dropped by the store, unanswerable ones are skipped
// without a backend call, and each remaining target runs as its own query.
// A failed query clears the cell's loading flag and keeps its old value; the
// first failure is returned after all targets settle.
func (e *Engine) RerunCells(ctx context.Context, tableID string, refs []table.CellRef) error {
	batch := e.store.BeginRerun(tableID, refs)
	if len(batch.Targets) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for _, target := range batch.Targets {
		g.Go(func() error {
			return e.runTarget(ctx, batch, target)
		})
	}
	return g.Wait()
}

func (e *Engine) runTarget(ctx context.Context, batch store.RerunBatch, target store.RerunTarget) error {
	query, answerable := EffectiveQuery(target.Column, target.Row, batch.Columns)
	if !answerable {
		e.store.FinishLoading(batch.TableID, target.Ref)
		e.logger.Debug("skipped unanswerable cell", "cell", target.Key)
		return nil
	}

	documentID := backend.SentinelDocumentID
	if target.Row.Source != nil {
		documentID = target.Row.Source.Document.ID
	}
	req := backend.QueryRequest{
		DocumentID: documentID,
		Prompt: backend.Prompt{
			ID:         target.Column.ID,
			EntityType: target.Column.EntityType,
			Query:      query,
			Type:       target.Column.Type,
			Rules:      backend.MergeRules(target.Column, batch.GlobalRules),
		},
	}

	resp, err := e.client.RunQuery(ctx, req)
	if err != nil {
		e.store.FinishLoading(batch.TableID, target.Ref)
		e.logger.Error("query failed", "cell", target.Key, "column", target.Column.ID, "error", err)
		return fmt.Errorf("query cell %s: %w", target.Key, err)
	}

	columnEntities, globalEntities := classifyEntities(resp.ResolvedEntities, target.Column, batch.GlobalRules)
	e.store.ApplyQueryOutcome(batch.TableID, store.QueryOutcome{
		Ref:            target.Ref,
		Answer:         resp.Answer.Answer,
		Chunks:         resp.Chunks,
		ColumnEntities: columnEntities,
		GlobalEntities: globalEntities,
	})
	return nil
}

// RerunRows recomputes every visible column of the given rows.
func (e *Engine) RerunRows(ctx context.Context, tableID string, rowIDs []string) error {
	t, ok := e.store.Table(tableID)
	if !ok {
		return nil
	}
	var refs []table.CellRef
	for _, rowID := range rowIDs {
		for _, column := range t.Columns {
			if column.Hidden {
				continue
			}
			refs = append(refs, table.CellRef{RowID: rowID, ColumnID: column.ID})
		}
	}
	return e.RerunCells(ctx, tableID, refs)
}

// RerunColumns recomputes the given columns across every visible row.
func (e *Engine) RerunColumns(ctx context.Context, tableID string, columnIDs []string) error {
	t, ok := e.store.Table(tableID)
	if !ok {
		return nil
	}
	var refs []table.CellRef
	for _, row := range t.Rows {
		if row.Hidden {
			continue
		}
		for _, columnID := range columnIDs {
			refs = append(refs, table.CellRef{RowID: row.ID, ColumnID: columnID})
		}
	}
	return e.RerunCells(ctx, tableID, refs)
}

// FillRow uploads one document, attaches it to the row and recomputes the
// row. Attaching drops the row's previously computed cells first.
func (e *Engine) FillRow(ctx context.Context, rowID, filename string, r io.Reader) error {
	tableID := e.store.ActiveTableID()
	doc, err := e.client.UploadDocument(ctx, filename, r)
	if err != nil {
		return fmt.Errorf("fill row %s: %w", rowID, err)
	}
	e.store.AttachDocument(tableID, rowID, doc)
	return e.RerunRows(ctx, tableID, []string{rowID})
}

// File is one upload in a bulk fill.
type File struct {
	Name   string
	Reader io.Reader
}

// FillRows uploads a batch of documents into the table, filling empty rows
// first and appending new ones once they run out. The uploading flag is held
// for the whole batch and released even when an upload fails; the failure
// aborts the remaining files.
func (e *Engine) FillRows(ctx context.Context, files []File) error {
	tableID := e.store.ActiveTableID()
	e.store.SetUploadingFiles(tableID, true)
	defer e.store.SetUploadingFiles(tableID, false)

	for _, f := range files {
		doc, err := e.client.UploadDocument(ctx, f.Name, f.Reader)
		if err != nil {
			return fmt.Errorf("fill rows: %w", err)
		}
		rowID := e.store.FirstEmptyRowID(tableID)
		if rowID == "" {
			rowID = e.store.AppendRow(tableID)
		}
		e.store.AttachDocument(tableID, rowID, doc)
		if err := e.RerunRows(ctx, tableID, []string{rowID}); err != nil {
			e.logger.Error("row recompute failed after upload", "row", rowID, "error", err)
		}
	}
	return nil
}

// DeleteRows removes the rows from the active table and deletes any documents
// they orphaned from the document store. Document deletion is best-effort;
// failures are logged, the rows are already gone.
func (e *Engine) DeleteRows(ctx context.Context, rowIDs []string) {
	for _, docID := range e.store.DeleteRows(rowIDs) {
		if err := e.client.DeleteDocument(ctx, docID); err != nil {
			e.logger.Error("orphaned document delete failed", "document", docID, "error", err)
		}
	}
}

// ExportTriples ships the active table's columns, rows and chunks to the
// export endpoint and returns the blob.
func (e *Engine) ExportTriples(ctx context.Context) ([]byte, error) {
	t := e.store.ActiveTable()
	if t == nil {
		return nil, fmt.Errorf("export triples: no active table")
	}
	payload := map[string]any{
		"columns": t.Columns,
		"rows":    t.Rows,
		"chunks":  t.Chunks,
	}
	return e.client.ExportTriples(ctx, payload)
}

// UndoResolvedEntity reverses one recorded entity substitution in the active
// table.
func (e *Engine) UndoResolvedEntity(entity table.ResolvedEntity) {
	e.store.UndoResolvedEntity(entity)
}
