package schedule

import "time"

// WorkSchedule is the company-wide schedule. There is at most one per company.
type WorkSchedule struct {
	ID               string
	Days             WeekdayFlags
	StartTime        *string // HH:MM or HH:MM:SS
	EndTime          *string
	ToleranceMinutes int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EmployeeWorkSchedule overrides the company schedule for a single employee.
type EmployeeWorkSchedule struct {
	ID         string
	EmployeeID string
	WorkDays   WorkDays
	StartTime  *string
	EndTime    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Source tells which schedule a resolution came from.
type Source string

const (
	SourceEmployee Source = "employee"
	SourceCompany  Source = "company"
	SourceNone     Source = "none"
)

// Resolved is the schedule in effect for an employee. Fields are never merged
// between the employee override and the company schedule.
type Resolved struct {
	Source    Source
	WorkDays  WorkDays
	StartTime *string
}

// Exists reports whether any schedule was found.
func (r Resolved) Exists() bool {
	return r.Source != SourceNone
}

// HasStartTime reports whether the resolved schedule carries a usable start time.
func (r Resolved) HasStartTime() bool {
	return r.StartTime != nil && *r.StartTime != ""
}

// Resolve picks the employee override when present, the company schedule otherwise.
func Resolve(employee *EmployeeWorkSchedule, company *WorkSchedule) Resolved {
	switch {
	case employee != nil:
		return Resolved{Source: SourceEmployee, WorkDays: employee.WorkDays, StartTime: employee.StartTime}
	case company != nil:
		return Resolved{Source: SourceCompany, WorkDays: FlaggedWorkDays(company.Days), StartTime: company.StartTime}
	default:
		return Resolved{Source: SourceNone}
	}
}

// ToleranceOf returns the grace minutes of the company schedule, 0 when absent.
// Employee overrides never carry a tolerance of their own.
func ToleranceOf(company *WorkSchedule) int {
	if company == nil || company.ToleranceMinutes < 0 {
		return 0
	}
	return company.ToleranceMinutes
}
