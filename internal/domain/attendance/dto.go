package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// ========================================
// MANUAL ATTENDANCE DTOs
// ========================================

type CreateManualAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required,uuid"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // HH:MM[:SS] or RFC3339
	CheckOutTime *string `json:"check_out_time,omitempty"` // HH:MM[:SS] or RFC3339
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ManualEntry is a validated CreateManualAttendanceRequest with its times resolved.
type ManualEntry struct {
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Notes      *string
}

func (r *CreateManualAttendanceRequest) Validate() error {
	_, err := r.Parse(time.UTC)
	return err
}

// Parse validates the request and resolves wall-clock times on Date in loc.
func (r *CreateManualAttendanceRequest) Parse(loc *time.Location) (ManualEntry, error) {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return ManualEntry{}, err
		}
		errs = append(errs, fieldErrs...)
	}

	entry := ManualEntry{EmployeeID: r.EmployeeID}

	day, validDate := validator.IsValidDate(r.Date)
	if validDate {
		entry.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	}

	if r.CheckInTime != nil && !validator.IsEmpty(*r.CheckInTime) && validDate {
		t, ok := parseTimeOnDay(*r.CheckInTime, entry.Date, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be HH:MM, HH:MM:SS or an ISO8601 timestamp",
			})
		} else if !sameDate(t, entry.Date) {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must fall on date",
			})
		} else {
			entry.CheckIn = &t
		}
	}

	if r.CheckOutTime != nil && !validator.IsEmpty(*r.CheckOutTime) && validDate {
		t, ok := parseTimeOnDay(*r.CheckOutTime, entry.Date, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be HH:MM, HH:MM:SS or an ISO8601 timestamp",
			})
		} else {
			entry.CheckOut = &t
		}
	}

	if entry.CheckIn != nil && entry.CheckOut != nil && entry.CheckOut.Before(*entry.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: ErrCheckOutBeforeCheckIn.Error(),
		})
	}

	if r.Notes != nil {
		trimmed := strings.TrimSpace(*r.Notes)
		if trimmed != "" {
			entry.Notes = &trimmed
		}
	}

	if len(errs) > 0 {
		return ManualEntry{}, errs
	}

	return entry, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseTimeOnDay accepts a full timestamp or a clock time placed on day.
func parseTimeOnDay(value string, day time.Time, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, ok := validator.IsValidDateTime(value); ok {
		return t.In(loc), true
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if clock, err := time.Parse(layout, value); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc), true
		}
	}
	return time.Time{}, false
}

type AttendanceResponse struct {
	ID             string            `json:"id"`
	EmployeeID     string            `json:"employee_id"`
	Date           string            `json:"date"`
	CheckInTime    *string           `json:"check_in_time"`
	CheckOutTime   *string           `json:"check_out_time"`
	IsBusinessTrip bool              `json:"is_business_trip"`
	IsManual       bool              `json:"is_manual"`
	IsLate         bool              `json:"is_late"`
	LateMinutes    int               `json:"late_minutes"`
	Notes          *string           `json:"notes,omitempty"`
	OperationPath  *string           `json:"operation_path,omitempty"`
	ReadableID     *string           `json:"readable_id,omitempty"`
	CreatedAt      string            `json:"created_at"`
	Profile        *employee.Profile `json:"profile,omitempty"`
}
