package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
)

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	services := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		services = append(services, svc)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, services)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	svc, ok := s.services[id]
	s.mu.Unlock()

	if !ok {
		notFound(w, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req api.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	svc := domain.Service{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Description:   req.Description,
		ProducerEmail: req.ProducerEmail,
	}

	s.mu.Lock()
	s.services[svc.ID] = svc
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch api.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		notFound(w, "service not found")
		return
	}
	if patch.Name != nil {
		svc.Name = *patch.Name
	}
	if patch.Description != nil {
		svc.Description = *patch.Description
	}
	if patch.ProducerEmail != nil {
		svc.ProducerEmail = *patch.ProducerEmail
	}
	s.services[id] = svc

	writeJSON(w, http.StatusOK, svc)
}

// handleDeleteService removes the catalog entry. Meetings that reference it
// are left dangling on purpose; clients degrade their display to a
// placeholder instead of failing.
func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		notFound(w, "service not found")
		return
	}
	delete(s.services, id)
	writeJSON(w, http.StatusNoContent, nil)
}
