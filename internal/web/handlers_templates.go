package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleDownloadSample serves an example import file in the requested format.
func (s *Server) handleDownloadSample(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sample, err := core.Sample(format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", sample.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sample.Name))
	w.Write(sample.Content)
}
