package ui

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leaptable/internal/engine"
	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/table"
)

// insertRequest places a new row or column relative to an anchor. An empty
// anchor means head (before) or tail (after).
type insertRequest struct {
	AnchorID string `json:"anchorId"`
	Position string `json:"position"` // "before" or "after"
}

// --- Columns ---

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if !decode(w, r, &req) {
		return
	}
	var id string
	if req.Position == "before" {
		id = s.store.InsertColumnBefore(req.AnchorID)
	} else {
		id = s.store.InsertColumnAfter(req.AnchorID)
	}
	if id == "" {
		http.Error(w, "anchor column not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleEditColumn(w http.ResponseWriter, r *http.Request) {
	var patch store.ColumnPatch
	if !decode(w, r, &patch) {
		return
	}
	s.store.EditColumn(chi.URLParam(r, "id"), patch)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.DeleteColumns(req.IDs)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleClearColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.ClearColumns(req.IDs)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleRerunColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	go func() {
		if err := s.engine.RerunColumns(nonRequestContext(r), "", req.IDs); err != nil {
			s.logger.Error("column rerun finished with errors", "error", err)
		}
	}()
	respondJSON(w, http.StatusAccepted, nil)
}

func (s *Server) handleToggleAllColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hidden bool `json:"hidden"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.ToggleAllColumns(req.Hidden)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleUnwindColumn(w http.ResponseWriter, r *http.Request) {
	s.store.UnwindColumn(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, nil)
}

// --- Rows ---

func (s *Server) handleCreateRow(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if !decode(w, r, &req) {
		return
	}
	var id string
	if req.Position == "before" {
		id = s.store.InsertRowBefore(req.AnchorID)
	} else {
		id = s.store.InsertRowAfter(req.AnchorID)
	}
	if id == "" {
		http.Error(w, "anchor row not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.engine.DeleteRows(nonRequestContext(r), req.IDs)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleClearRows(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.ClearRows(req.IDs)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleRerunRows(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	go func() {
		if err := s.engine.RerunRows(nonRequestContext(r), "", req.IDs); err != nil {
			s.logger.Error("row rerun finished with errors", "error", err)
		}
	}()
	respondJSON(w, http.StatusAccepted, nil)
}

const maxUploadMemory = 32 << 20

func (s *Server) handleFillRow(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if err := s.engine.FillRow(r.Context(), chi.URLParam(r, "id"), header.Filename, file); err != nil {
		s.logger.Error("fill row failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleFillRows(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "missing files field", http.StatusBadRequest)
		return
	}

	files := make([]engine.File, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("open %s: %v", h.Filename, err), http.StatusBadRequest)
			return
		}
		opened = append(opened, f)
		files = append(files, engine.File{Name: h.Filename, Reader: f})
	}

	if err := s.engine.FillRows(r.Context(), files); err != nil {
		s.logger.Error("fill rows failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// --- Cells ---

func (s *Server) handleEditCells(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cells []store.CellEdit `json:"cells"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.EditCells("", req.Cells)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleClearCells(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cells []table.CellRef `json:"cells"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.ClearCells(req.Cells)
	respondJSON(w, http.StatusOK, nil)
}

// handleCellInput buffers one free-text keystroke-level edit. The buffer
// coalesces per cell and commits after its quiet window, casting the raw text
// to the column's declared type at commit time.
func (s *Server) handleCellInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowID    string `json:"rowId"`
		ColumnID string `json:"columnId"`
		Raw      string `json:"raw"`
	}
	if !decode(w, r, &req) {
		return
	}
	if s.buffer == nil {
		s.store.EditCells("", []store.CellEdit{{
			RowID:    req.RowID,
			ColumnID: req.ColumnID,
			Value:    castRaw(s.store, req.ColumnID, req.Raw),
		}})
		respondJSON(w, http.StatusOK, nil)
		return
	}
	s.buffer.Put(table.CellRef{RowID: req.RowID, ColumnID: req.ColumnID}, req.Raw)
	respondJSON(w, http.StatusAccepted, nil)
}

func (s *Server) handleFlushCellInput(w http.ResponseWriter, r *http.Request) {
	if s.buffer != nil {
		s.buffer.Flush()
	}
	respondJSON(w, http.StatusOK, nil)
}

func castRaw(st *store.Store, columnID, raw string) table.Value {
	if t := st.ActiveTable(); t != nil {
		if col := t.ColumnByID(columnID); col != nil {
			return table.CastToType(table.Str(raw), col.Type)
		}
	}
	return table.Str(raw)
}

func (s *Server) handleRerunCells(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cells []table.CellRef `json:"cells"`
	}
	if !decode(w, r, &req) {
		return
	}
	go func() {
		if err := s.engine.RerunCells(nonRequestContext(r), "", req.Cells); err != nil {
			s.logger.Error("cell rerun finished with errors", "error", err)
		}
	}()
	respondJSON(w, http.StatusAccepted, nil)
}
