package web

// errors.go provides unified error response handling for the API.
//
// Request-level failures abort the request with a single JSON error body;
// row-level failures never reach this path, they accumulate inside the
// import summary instead. Mapping rules:
//
//   - importer.ValidationError, record.ErrNoHeader -> 400
//   - importer.ErrNotFound                         -> 404
//   - importer.ErrTooManyImports                   -> 429
//   - anything else                                -> 500 (details logged,
//     not leaked to the client)

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dentalops/import-service/internal/importer"
	"github.com/dentalops/import-service/internal/record"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses. Code is a
// stable machine-readable identifier for support reference.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps err onto an HTTP status and writes the JSON error
// body. The technical error is logged with the request ID for correlation.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classifyError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeErrorCode(w, status, message, code)
}

// classifyError picks the response status, code, and client-safe message.
func classifyError(err error) (status int, code, message string) {
	var verr *importer.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION", verr.Message
	case errors.Is(err, record.ErrNoHeader):
		return http.StatusBadRequest, "EMPTY_FILE", "file has no header row"
	case errors.Is(err, importer.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "not found"
	case errors.Is(err, importer.ErrTooManyImports):
		return http.StatusTooManyRequests, "TOO_MANY_IMPORTS", "too many concurrent imports, try again shortly"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal server error"
	}
}

// writeErrorCode writes a JSON error body with an explicit status and code.
func writeErrorCode(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}
