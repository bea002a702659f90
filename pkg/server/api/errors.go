package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/analysis"
	"github.com/chameleon-sec/chameleon/pkg/dispatch"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// Stable error kinds surfaced in JSON error responses. Clients key on these,
// so they never change.
const (
	KindInvalidTarget     = "InvalidTarget"
	KindInvalidRequest    = "InvalidRequest"
	KindCommandNotAllowed = "CommandNotAllowed"
	KindNotFound          = "NotFound"
	KindPersistenceFailed = "PersistenceFailed"
	KindInternal          = "InternalError"
)

// ErrorResponse is the standard JSON error body: a stable kind plus a
// human-readable message, never a stack trace.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError maps an error to its HTTP status and stable kind, logs it, and
// writes the JSON error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		statusCode int
		kind       string
	)

	var notAllowed *dispatch.NotAllowedError
	switch {
	case errors.Is(err, analysis.ErrInvalidTarget):
		statusCode = http.StatusBadRequest
		kind = KindInvalidTarget
	case errors.As(err, &notAllowed):
		statusCode = http.StatusBadRequest
		kind = KindCommandNotAllowed
	case storage.IsNotFound(err):
		statusCode = http.StatusNotFound
		kind = KindNotFound
	case errors.Is(err, storage.ErrPersistenceFailed),
		errors.Is(err, storage.ErrClosed),
		errors.Is(err, storage.ErrAlreadyExists):
		statusCode = http.StatusInternalServerError
		kind = KindPersistenceFailed
	default:
		statusCode = http.StatusInternalServerError
		kind = KindInternal
	}

	logEvent := log.Error().
		Str("component", "api").
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", statusCode).
		Err(err)
	if statusCode < http.StatusInternalServerError {
		logEvent = log.Warn().
			Str("component", "api").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", statusCode).
			Err(err)
	}
	logEvent.Msg("Request failed")

	WriteJSONError(w, statusCode, kind, err.Error())
}

// WriteJSONError writes a custom JSON error response with a specific status
// code and error kind.
func WriteJSONError(w http.ResponseWriter, statusCode int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: kind, Message: message}); err != nil {
		log.Error().
			Str("component", "api").
			Err(err).
			Msg("Failed to encode error response")
	}
}

// WriteJSON writes a JSON success response.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().
			Str("component", "api").
			Err(err).
			Msg("Failed to encode JSON response")
	}
}
