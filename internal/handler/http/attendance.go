package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	CreateManual(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.ListAttendances(r.Context())
	if err != nil {
		slog.Error("Failed to list attendances", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, listMeta(r, records))
}

func listMeta(r *http.Request, records []attendance.AttendanceResponse) *response.Meta {
	meta := &response.Meta{TotalItems: len(records), Scope: "own"}
	if caller, err := auth.CallerFromContext(r.Context()); err == nil && caller.IsAdmin {
		meta.Scope = "all"
	}
	for _, rec := range records {
		if rec.IsLate {
			meta.LateItems++
		}
	}
	return meta
}

// CreateManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateManualAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.CreateManualAttendance(r.Context(), req)
	if err != nil {
		slog.Warn("Manual attendance rejected", "employee_id", req.EmployeeID, "date", req.Date, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual attendance recorded", record)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid attendance id", map[string]string{"id": "id must be a valid UUID"})
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		slog.Error("Failed to delete attendance", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted", nil)
}
