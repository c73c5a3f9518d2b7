package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
)

type WorkingDaysHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type workingDaysHandlerImpl struct {
	workingDaysService schedule.WorkingDaysService
}

func NewWorkingDaysHandler(workingDaysService schedule.WorkingDaysService) WorkingDaysHandler {
	return &workingDaysHandlerImpl{workingDaysService: workingDaysService}
}

// Summary implements WorkingDaysHandler.
// The label language comes from ?lang= or, when absent, Accept-Language.
func (h *workingDaysHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := schedule.WorkingDaysRequest{
		EmployeeID: query.Get("employee_id"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Language:   query.Get("lang"),
	}
	if req.Language == "" {
		req.Language = r.Header.Get("Accept-Language")
	}

	summary, err := h.workingDaysService.Summary(r.Context(), req)
	if err != nil {
		slog.Error("Failed to compute working days", "employee_id", req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
