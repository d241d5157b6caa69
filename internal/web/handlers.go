package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dentalops/import-service/internal/importer"
	webmw "github.com/dentalops/import-service/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// importRequest is the JSON envelope accepted by the import and preview
// endpoints.
type importRequest struct {
	FileContent  string            `json:"file_content"`
	DetectedType string            `json:"detected_type"`
	FieldMapping map[string]string `json:"field_mapping"`
	FileName     string            `json:"filename"`
}

// practitioner resolves the authenticated subject to a practitioner
// profile. It writes the error response itself and returns nil when the
// caller is missing (401), unknown (404), or not a practitioner (403).
func (s *Server) practitioner(w http.ResponseWriter, r *http.Request) *importer.Profile {
	subject, ok := webmw.SubjectFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "missing bearer token", "AUTH_REQUIRED")
		return nil
	}

	profile, err := s.service.Profile(r.Context(), subject)
	if err != nil {
		if errors.Is(err, importer.ErrNotFound) {
			writeErrorCode(w, http.StatusNotFound, "profile not found", "PROFILE_NOT_FOUND")
			return nil
		}
		s.respondError(w, r, err)
		return nil
	}

	if profile.Role != importer.RolePractitioner {
		writeErrorCode(w, http.StatusForbidden, "practitioner role required", "PRACTITIONER_ONLY")
		return nil
	}

	return profile
}

// decodeImportRequest reads and validates the request envelope. It writes
// the 400 response itself and reports success through the bool.
func (s *Server) decodeImportRequest(w http.ResponseWriter, r *http.Request) (importRequest, bool) {
	var req importRequest

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return req, false
	}

	if strings.TrimSpace(req.FileContent) == "" {
		writeErrorCode(w, http.StatusBadRequest, "file_content is required", "BAD_REQUEST")
		return req, false
	}
	if _, err := importer.ParseType(req.DetectedType); err != nil {
		writeErrorCode(w, http.StatusBadRequest,
			"detected_type must be one of: patients, appointments, treatments", "BAD_REQUEST")
		return req, false
	}

	return req, true
}

// handleImport runs a full import and returns the aggregated summary.
// Row-level failures do not fail the request; they come back in the
// summary's errors list.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	profile := s.practitioner(w, r)
	if profile == nil {
		return
	}

	req, ok := s.decodeImportRequest(w, r)
	if !ok {
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "import.csv"
	}
	t, _ := importer.ParseType(req.DetectedType)

	summary, err := s.service.RunImport(r.Context(), importer.Request{
		PractitionerID: profile.ID,
		FileName:       fileName,
		FileContent:    req.FileContent,
		Type:           t,
		FieldMapping:   req.FieldMapping,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, summary)
}

// handlePreview analyzes the first rows of a file without persisting
// anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	profile := s.practitioner(w, r)
	if profile == nil {
		return
	}

	req, ok := s.decodeImportRequest(w, r)
	if !ok {
		return
	}
	t, _ := importer.ParseType(req.DetectedType)

	result, err := s.service.Preview(importer.Request{
		PractitionerID: profile.ID,
		FileContent:    req.FileContent,
		Type:           t,
		FieldMapping:   req.FieldMapping,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, result)
}

// jobDetail is the job endpoint's response body.
type jobDetail struct {
	Job   *importer.ImportJob      `json:"job"`
	Items []importer.ImportJobItem `json:"items"`
}

// handleJob returns one of the caller's jobs with its per-row audit items.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	profile := s.practitioner(w, r)
	if profile == nil {
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid job id", "BAD_REQUEST")
		return
	}

	job, items, err := s.service.Job(r.Context(), jobID, profile.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, jobDetail{Job: job, Items: items})
}

// handleListJobs returns the caller's most recent jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	profile := s.practitioner(w, r)
	if profile == nil {
		return
	}

	jobs, err := s.service.RecentJobs(r.Context(), profile.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{"jobs": jobs})
}

// handleHealth reports liveness and backend connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{"status": "degraded", "database": err.Error()})
		return
	}

	writeJSON(w, map[string]any{
		"status":  "ok",
		"imports": s.service.LimiterStatus(),
	})
}
