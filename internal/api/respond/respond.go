// Package respond writes the JSON envelopes shared by all Love services.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Error codes used across the HTTP surface.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidCursor   = "INVALID_CURSOR"
	CodeInvalidID       = "INVALID_ID"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUnavailable     = "UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorBody is the inner error object of the wire envelope.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// ErrorResponse is the standard error envelope:
// {"error":{"code":...,"message":...,"details":[...]}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes a standardized error envelope.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// WriteValidationError writes a 400 with code VALIDATION_ERROR.
func WriteValidationError(w http.ResponseWriter, message string, details ...string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message, details...)
}

// WriteInvalidCursor writes a 400 with code INVALID_CURSOR.
func WriteInvalidCursor(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeInvalidCursor, message)
}

// WriteNotFound writes a 404 with code NOT_FOUND.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// WriteInternalError writes a 500 with code INTERNAL_ERROR.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
