package schedule

import (
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// WorkingDaysRequest asks for the working days of an employee over an inclusive range.
type WorkingDaysRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Language   string `json:"-"`
}

func (r *WorkingDaysRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	if end.Before(start) {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		}}
	}

	// A year is plenty for leave-day counting and bounds the scan.
	if end.Sub(start).Hours()/24 > 366 {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: "range must not exceed 366 days",
		}}
	}

	return nil
}

// ScheduleInfo describes which schedule is active, for display only.
type ScheduleInfo struct {
	Type        string   `json:"type"`   // custom, company, none
	Source      string   `json:"source"` // employee_work_schedules, work_schedules, default
	Description string   `json:"description"`
	WorkDays    []string `json:"work_days"`
}

type WorkingDaysResponse struct {
	EmployeeID   string       `json:"employee_id"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	Count        int          `json:"count"`
	Dates        []string     `json:"dates"`
	Labels       []string     `json:"labels"`
	ScheduleInfo ScheduleInfo `json:"schedule_info"`
}
