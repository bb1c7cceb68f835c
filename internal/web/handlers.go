package web

import (
	"context"
	"net/http"
	"time"

	"github.com/a-h/templ"
)

// healthCheckTimeout bounds the store ping done by /healthz.
const healthCheckTimeout = 3 * time.Second

// handleReviewPage renders the HTML review table for a cached preview.
func (s *Server) handleReviewPage(w http.ResponseWriter, r *http.Request) {
	preview, err := s.service.GetPreview(r.Context(), ownerID(r), importID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	templ.Handler(reviewPage(preview)).ServeHTTP(w, r)
}

// handleHealth reports whether the store is reachable and how busy the
// import queue is.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	storeStatus := "ok"
	if err := s.sessions.Ping(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
		storeStatus = err.Error()
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"store":   storeStatus,
		"imports": s.service.Limiter().Status(),
	})
}

// handleImportQueueStatus returns the current state of the import limiter.
// Used for monitoring and to check if the system can accept more imports.
func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Limiter().Status())
}
