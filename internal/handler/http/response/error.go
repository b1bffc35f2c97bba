package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/domain/auth"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Conflicts carry the id of the record holding the slot
	var conflict *attendance.ConflictError
	if errors.As(err, &conflict) {
		Conflict(w, conflict.Error(), conflict.ExistingID)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "Missing bearer token")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrProfileNotFound):
		Unauthorized(w, "User profile not found")

	// User domain errors
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrProfileEmailExists):
		Conflict(w, "Email already registered", "")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateAttendance):
		Conflict(w, "Attendance already marked for this student on this date", "")
	case errors.Is(err, attendance.ErrRecordIDExists):
		Conflict(w, "Attendance record id already exists", "")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred", err)
	}
}
