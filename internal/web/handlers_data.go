package web

import (
	"net/http"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/JonMunkholm/sessionplanner/internal/logging"
)

// handleListSessions returns the caller's most recent sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", defaultListLimit), maxListLimit)

	sessions, err := s.sessions.List(r.Context(), ownerID(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []core.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// handleBulkCreate creates many sessions in one call, optionally expanding
// them by a recurrence rule first. Partial failure is still a 200; the
// outcome lists which drafts failed and why.
func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var req core.BulkRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	outcome, err := s.service.BulkCreate(r.Context(), ownerID(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "owner_id", ownerID(r)).
		Info("bulk create",
			"drafts", len(req.Drafts),
			"recurring", req.Recurrence != nil,
			"created", outcome.TotalCreated,
			"failed", outcome.TotalFailed,
		)

	writeJSON(w, http.StatusOK, outcome)
}

// handleExpand shows the occurrences a rule produces without saving them.
func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	occurrences, err := s.service.Expand(req.Draft, req.Recurrence)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if occurrences == nil {
		occurrences = []core.SessionDraft{}
	}

	writeJSON(w, http.StatusOK, ExpandResponse{Count: len(occurrences), Occurrences: occurrences})
}
