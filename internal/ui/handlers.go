package ui

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leaptable/internal/grid"
	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// decode unmarshals the request body, writing a 400 on failure. The bool
// reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// nonRequestContext derives a context for work that outlives the request:
// rerun dispatch is accepted with a 202 and keeps running after the response,
// so it must not die with the request context.
func nonRequestContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// --- Workbook ---

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Snapshot()
	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleClearWorkbook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scope store.ClearScope `json:"scope"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.Clear(req.Scope)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleToggleColorScheme(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleColorScheme()
	respondJSON(w, http.StatusOK, map[string]string{"colorScheme": s.store.ColorScheme()})
}

// --- Tables ---

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	id := s.store.AddTable(req.Name)
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRenameTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.RenameTable(chi.URLParam(r, "id"), req.Name)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleActivateTable(w http.ResponseWriter, r *http.Request) {
	s.store.SwitchTable(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTable(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, nil)
}

// --- Selection ---

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keys []string `json:"keys"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.SetSelection(req.Keys)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.store.ClearSelection()
	respondJSON(w, http.StatusOK, nil)
}

// visibleAxes returns the ordered visible row and column ids of the active
// table, the index space selection rectangles are computed in.
func (s *Server) visibleAxes() (rows, columns []string) {
	t := s.store.ActiveTable()
	if t == nil {
		return nil, nil
	}
	for _, row := range t.Rows {
		if !row.Hidden {
			rows = append(rows, row.ID)
		}
	}
	for _, col := range t.Columns {
		if !col.Hidden {
			columns = append(columns, col.ID)
		}
	}
	return rows, columns
}

func (s *Server) handleSelectRange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start   string   `json:"start"`
		End     string   `json:"end"`
		Toggle  bool     `json:"toggle"`
		Initial []string `json:"initial"`
	}
	if !decode(w, r, &req) {
		return
	}
	initial := make(map[string]struct{}, len(req.Initial))
	for _, key := range req.Initial {
		initial[key] = struct{}{}
	}
	rows, columns := s.visibleAxes()
	drag := grid.Drag{Start: req.Start, End: req.End, Toggle: req.Toggle, Initial: initial}
	keys := drag.Selection(columns, rows)
	s.store.SetSelection(keys)
	respondJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

func (s *Server) handleSelectRow(w http.ResponseWriter, r *http.Request) {
	_, columns := s.visibleAxes()
	keys := grid.RowKeys(chi.URLParam(r, "id"), columns)
	s.store.SetSelection(keys)
	respondJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

func (s *Server) handleSelectColumn(w http.ResponseWriter, r *http.Request) {
	rows, _ := s.visibleAxes()
	keys := grid.ColumnKeys(chi.URLParam(r, "id"), rows)
	s.store.SetSelection(keys)
	respondJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// --- Chunks ---

func (s *Server) handleOpenChunks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cells []table.CellRef `json:"cells"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.OpenChunks(req.Cells)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCloseChunks(w http.ResponseWriter, r *http.Request) {
	s.store.CloseChunks()
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	ref := table.CellRef{RowID: chi.URLParam(r, "row"), ColumnID: chi.URLParam(r, "col")}
	chunks := s.store.Chunks("", ref)
	respondJSON(w, http.StatusOK, map[string][]table.Chunk{"chunks": chunks})
}

// --- Resolved entities / export ---

func (s *Server) handleUndoResolvedEntity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Entity table.ResolvedEntity `json:"entity"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.engine.UndoResolvedEntity(req.Entity)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleExportTriples(w http.ResponseWriter, r *http.Request) {
	blob, err := s.engine.ExportTriples(r.Context())
	if err != nil {
		s.logger.Error("export failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="triples.json"`)
	_, _ = w.Write(blob)
}
