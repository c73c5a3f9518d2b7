package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Conflicts carry a message meant for the user
	var conflict *attendance.ConflictError
	if errors.As(err, &conflict) {
		ConflictWithCode(w, conflictCode(conflict), conflict.Message)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, "Token is missing required claims")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrInvalidDateFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, schedule.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

func conflictCode(c *attendance.ConflictError) string {
	if errors.Is(c, attendance.ErrHardConflict) {
		return "HARD_CONFLICT"
	}
	return "SOFT_CONFLICT"
}
