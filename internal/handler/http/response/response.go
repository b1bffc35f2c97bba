package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error      string      `json:"error"`
	Code       string      `json:"code"`
	Details    interface{} `json:"details,omitempty"`
	ExistingID string      `json:"existingId,omitempty"`
}

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_SERVER_ERROR"
	CodeEncodingFailure = "ENCODING_ERROR"
)

var exposeInternalErrors atomic.Bool

// ExposeInternalErrors controls whether 500 responses carry the raw cause.
// Enabled only in development.
func ExposeInternalErrors(enabled bool) {
	exposeInternalErrors.Store(enabled)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
		_ = json.NewEncoder(w).Encode(ErrorBody{
			Error: "Failed to encode response",
			Code:  CodeEncodingFailure,
		})
	}
}

// JSON writes payload with an arbitrary status code.
func JSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, payload)
}

// Success responses
func OK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error responses
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	body := ErrorBody{Error: message, Code: CodeBadRequest}
	if len(details) > 0 {
		body.Details = details
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		Error:   "Validation failed",
		Code:    CodeValidation,
		Details: details,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ErrorBody{Error: message, Code: CodeUnauthorized})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, ErrorBody{Error: message, Code: CodeForbidden})
}

func NotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorBody{Error: message, Code: CodeNotFound})
}

func Conflict(w http.ResponseWriter, message string, existingID string) {
	writeJSON(w, http.StatusConflict, ErrorBody{Error: message, Code: CodeConflict, ExistingID: existingID})
}

func TooManyRequests(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusTooManyRequests, ErrorBody{Error: message, Code: CodeRateLimited})
}

func InternalServerError(w http.ResponseWriter, message string, cause error) {
	body := ErrorBody{Error: message, Code: CodeInternalError}
	if cause != nil && exposeInternalErrors.Load() {
		body.Details = map[string]string{"cause": cause.Error()}
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
