package ui

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the JSON API under /api/v1 plus the SSE update
// stream.
func (s *Server) setupRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/workbook", s.handleWorkbook)
		r.Post("/workbook/clear", s.handleClearWorkbook)
		r.Post("/color-scheme/toggle", s.handleToggleColorScheme)

		r.Post("/tables", s.handleCreateTable)
		r.Patch("/tables/{id}", s.handleRenameTable)
		r.Post("/tables/{id}/activate", s.handleActivateTable)
		r.Delete("/tables/{id}", s.handleDeleteTable)

		r.Post("/columns", s.handleCreateColumn)
		r.Patch("/columns/{id}", s.handleEditColumn)
		r.Post("/columns/delete", s.handleDeleteColumns)
		r.Post("/columns/clear", s.handleClearColumns)
		r.Post("/columns/rerun", s.handleRerunColumns)
		r.Post("/columns/hidden", s.handleToggleAllColumns)
		r.Post("/columns/{id}/unwind", s.handleUnwindColumn)

		r.Post("/rows", s.handleCreateRow)
		r.Post("/rows/delete", s.handleDeleteRows)
		r.Post("/rows/clear", s.handleClearRows)
		r.Post("/rows/rerun", s.handleRerunRows)
		r.Post("/rows/{id}/document", s.handleFillRow)
		r.Post("/documents", s.handleFillRows)

		r.Post("/cells", s.handleEditCells)
		r.Post("/cells/input", s.handleCellInput)
		r.Post("/cells/input/flush", s.handleFlushCellInput)
		r.Post("/cells/clear", s.handleClearCells)
		r.Post("/cells/rerun", s.handleRerunCells)

		r.Post("/global-rules", s.handleAddGlobalRules)
		r.Patch("/global-rules/{id}", s.handleEditGlobalRule)
		r.Post("/global-rules/delete", s.handleDeleteGlobalRules)
		r.Post("/global-rules/import", s.handleImportGlobalRules)

		r.Post("/filters", s.handleAddFilter)
		r.Patch("/filters/{id}", s.handleEditFilter)
		r.Post("/filters/delete", s.handleDeleteFilters)

		r.Put("/selection", s.handleSetSelection)
		r.Delete("/selection", s.handleClearSelection)
		r.Post("/selection/range", s.handleSelectRange)
		r.Post("/selection/row/{id}", s.handleSelectRow)
		r.Post("/selection/column/{id}", s.handleSelectColumn)

		r.Post("/chunks/open", s.handleOpenChunks)
		r.Post("/chunks/close", s.handleCloseChunks)
		r.Get("/chunks/{row}/{col}", s.handleChunks)

		r.Post("/resolved-entities/undo", s.handleUndoResolvedEntity)
		r.Post("/export/triples", s.handleExportTriples)

		r.Get("/updates", s.handleUpdates)
	})
}
