package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/JonMunkholm/sessionplanner/internal/logging"
)

// handlePreview parses an uploaded file and caches the reviewed rows.
// Row-level problems are part of the 200 response; only an unreadable file
// is an error.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.service.PreviewImport(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "import_id", preview.ImportID, "owner_id", req.OwnerID).
		Info("import previewed",
			"file", req.FileName,
			"format", preview.Format,
			"rows", preview.Summary.Total,
			"failed", preview.Summary.Failed,
		)

	writeJSON(w, http.StatusOK, toPreviewResponse(preview))
}

// handleGetPreview returns a cached preview again, e.g. after a reload.
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	preview, err := s.service.GetPreview(r.Context(), ownerID(r), importID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewResponse(preview))
}

// handleCommit writes the selected rows of a preview. The body is optional;
// without one every non-error row is committed.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var opts core.CommitOptions
	if err := decodeJSON(w, r, &opts, true); err != nil {
		s.respondError(w, r, err)
		return
	}

	id := importID(r)
	outcome, err := s.service.CommitImport(r.Context(), ownerID(r), id, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "import_id", id, "owner_id", ownerID(r)).
		Info("import committed",
			"attempted", outcome.TotalAttempted,
			"created", outcome.TotalCreated,
			"failed", outcome.TotalFailed,
		)

	writeJSON(w, http.StatusOK, outcome)
}

// handleImportReport downloads every previewed row with its status, errors
// and warnings as CSV.
func (s *Server) handleImportReport(w http.ResponseWriter, r *http.Request) {
	preview, err := s.service.GetPreview(r.Context(), ownerID(r), importID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"import-%s-report.csv\"", preview.ImportID))

	if err := core.WriteReport(w, preview.Rows); err != nil {
		// Headers are already sent; the client gets a truncated file.
		logging.FromContext(r.Context()).Error("report write failed", "import_id", preview.ImportID, "error", err)
	}
}
