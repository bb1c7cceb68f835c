// Package web provides HTTP handlers for the import application.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/go-chi/chi/v5"
)

// Listing bounds for GET /api/sessions.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// maxJSONBody caps JSON request bodies. A full bulk request of 500 drafts
// with long notes stays well under this.
const maxJSONBody = 4 << 20

// multipartOverhead is allowed on top of the file size limit for the
// multipart boundaries and the format field.
const multipartOverhead = 64 << 10

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// ownerID returns the owner set by the OwnerID middleware.
func ownerID(r *http.Request) string {
	return core.OwnerIDFromContext(r.Context())
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		var dateErr *core.DateError
		if errors.As(err, &dateErr) {
			return err
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// readUpload reads the "file" part of a multipart form, bounded by the
// service's file size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.PreviewRequest, error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.PreviewRequest{}, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return core.PreviewRequest{}, fmt.Errorf("%w: invalid upload form: %v", errBadRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.PreviewRequest{}, fmt.Errorf("%w: no file provided", errBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return core.PreviewRequest{}, fmt.Errorf("read upload: %w", err)
	}

	return core.PreviewRequest{
		OwnerID:     ownerID(r),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Format:      r.FormValue("format"),
		Data:        data,
	}, nil
}

// importID returns the {importID} URL parameter.
func importID(r *http.Request) string {
	return chi.URLParam(r, "importID")
}

// PreviewResponse is the JSON body returned for an import preview.
type PreviewResponse struct {
	ImportID  string             `json:"importId"`
	FileName  string             `json:"fileName,omitempty"`
	Format    core.Format        `json:"format"`
	Rows      []core.ImportRow   `json:"rows"`
	Summary   core.ImportSummary `json:"summary"`
	ReviewURL string             `json:"reviewUrl"`
	ReportURL string             `json:"reportUrl"`
}

// toPreviewResponse converts an ImportPreview to its API shape.
func toPreviewResponse(p core.ImportPreview) PreviewResponse {
	return PreviewResponse{
		ImportID:  p.ImportID,
		FileName:  p.FileName,
		Format:    p.Format,
		Rows:      p.Rows,
		Summary:   p.Summary,
		ReviewURL: "/import/" + p.ImportID,
		ReportURL: "/api/import/" + p.ImportID + "/report",
	}
}

// ExpandRequest is the body of POST /api/sessions/expand.
type ExpandRequest struct {
	Draft      core.SessionDraft   `json:"draft"`
	Recurrence core.RecurrenceRule `json:"recurrence"`
}

// ExpandResponse lists the occurrences a rule would create.
type ExpandResponse struct {
	Count       int                 `json:"count"`
	Occurrences []core.SessionDraft `json:"occurrences"`
}
