package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
)

// handleGetBusiness returns the singleton business wrapped in an array;
// clients take the first element.
func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	business := s.business
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, []domain.Business{business})
}

func (s *Server) handleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch api.BusinessPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.business.ID != id {
		notFound(w, "business not found")
		return
	}
	if patch.Name != nil {
		s.business.Name = *patch.Name
	}
	if patch.Description != nil {
		s.business.Description = *patch.Description
	}
	if patch.ManagerEmail != nil {
		s.business.ManagerEmail = *patch.ManagerEmail
	}

	writeJSON(w, http.StatusOK, nil)
}
