package devserver

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
)

// slotTakenMessage deliberately contains the locale token old clients
// pattern-match on; new clients should use the SLOT_TAKEN code instead.
const slotTakenMessage = "המועד המבוקש תפוס, יש לבחור מועד אחר"

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	serviceID := r.URL.Query().Get("serviceId")
	userEmail := r.URL.Query().Get("userEmail")

	s.mu.Lock()
	meetings := make([]domain.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if status != "" && string(m.Status) != status {
			continue
		}
		if serviceID != "" && m.ServiceID != serviceID {
			continue
		}
		if userEmail != "" && m.UserEmail != userEmail {
			continue
		}
		meetings = append(meetings, m)
	}
	s.mu.Unlock()

	slices.SortFunc(meetings, func(a, b domain.Meeting) int {
		return a.StartAt().Compare(b.StartAt())
	})
	writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	meeting, ok := s.meetings[id]
	s.mu.Unlock()

	if !ok {
		notFound(w, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req api.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.ServiceID == "" || req.UserEmail == "" || req.Date.IsZero() || req.Duration <= 0 {
		badRequest(w, "serviceId, userEmail, date, time and duration are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[req.ServiceID]; !ok {
		badRequest(w, "unknown service")
		return
	}

	meeting := domain.Meeting{
		ID:        domain.RealMeetingID(uuid.New().String()),
		ServiceID: req.ServiceID,
		UserEmail: req.UserEmail,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Status:    domain.StatusConfirmed,
	}
	if s.conflictsLocked(meeting, "") {
		writeError(w, http.StatusConflict, slotTakenMessage, api.CodeSlotTaken)
		return
	}

	s.meetings[meeting.ID.String()] = meeting
	writeJSON(w, http.StatusCreated, meeting)
}

func (s *Server) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch api.MeetingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meeting, ok := s.meetings[id]
	if !ok {
		notFound(w, "meeting not found")
		return
	}

	if patch.ServiceID != nil {
		if _, ok := s.services[*patch.ServiceID]; !ok {
			badRequest(w, "unknown service")
			return
		}
		meeting.ServiceID = *patch.ServiceID
	}
	if patch.UserEmail != nil {
		meeting.UserEmail = *patch.UserEmail
	}
	if patch.Date != nil {
		meeting.Date = *patch.Date
	}
	if patch.Time != nil {
		meeting.Time = *patch.Time
	}
	if patch.Duration != nil {
		meeting.Duration = *patch.Duration
	}
	if patch.Status != nil {
		status, ok := domain.ParseStatus(*patch.Status)
		if !ok {
			badRequest(w, "invalid status")
			return
		}
		meeting.Status = status
	}

	if s.conflictsLocked(meeting, id) {
		writeError(w, http.StatusConflict, slotTakenMessage, api.CodeSlotTaken)
		return
	}

	s.meetings[id] = meeting
	writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		notFound(w, "meeting not found")
		return
	}
	delete(s.meetings, id)
	writeJSON(w, http.StatusNoContent, nil)
}

// conflictsLocked reports whether candidate's interval intersects any other
// non-cancelled meeting. Callers hold s.mu.
func (s *Server) conflictsLocked(candidate domain.Meeting, excludeID string) bool {
	for id, existing := range s.meetings {
		if id == excludeID {
			continue
		}
		if candidate.Overlaps(existing) {
			return true
		}
	}
	return false
}
