package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leaptable/internal/rulecsv"
	"github.com/leapstack-labs/leaptable/internal/store"
)

// --- Global rules ---

func (s *Server) handleAddGlobalRules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rules []store.GlobalRuleInput `json:"rules"`
	}
	if !decode(w, r, &req) {
		return
	}
	ids := s.store.AddGlobalRules(req.Rules)
	respondJSON(w, http.StatusCreated, map[string][]string{"ids": ids})
}

func (s *Server) handleEditGlobalRule(w http.ResponseWriter, r *http.Request) {
	var patch store.GlobalRulePatch
	if !decode(w, r, &patch) {
		return
	}
	s.store.EditGlobalRule(chi.URLParam(r, "id"), patch)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteGlobalRules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		// IDs null means delete all.
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.DeleteGlobalRules(req.IDs)
	respondJSON(w, http.StatusOK, nil)
}

// handleImportGlobalRules consumes a CSV body of rule_type,value,entity_type
// records and appends the parsed rules to the active table.
func (s *Server) handleImportGlobalRules(w http.ResponseWriter, r *http.Request) {
	rules, err := rulecsv.Parse(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids := s.store.AddGlobalRules(rules)
	respondJSON(w, http.StatusCreated, map[string][]string{"ids": ids})
}

// --- Filters ---

func (s *Server) handleAddFilter(w http.ResponseWriter, r *http.Request) {
	var req store.FilterInput
	if !decode(w, r, &req) {
		return
	}
	id := s.store.AddFilter(req)
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleEditFilter(w http.ResponseWriter, r *http.Request) {
	var patch store.FilterPatch
	if !decode(w, r, &patch) {
		return
	}
	s.store.EditFilter(chi.URLParam(r, "id"), patch)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		// IDs null means delete all.
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.store.DeleteFilters(req.IDs)
	respondJSON(w, http.StatusOK, nil)
}
