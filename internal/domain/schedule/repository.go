package schedule

import (
	"context"
	"time"
)

// WorkScheduleRepository reads company and employee schedules.
// Missing rows are reported as nil, nil.
type WorkScheduleRepository interface {
	GetCompanySchedule(ctx context.Context) (*WorkSchedule, error)
	GetEmployeeSchedule(ctx context.Context, employeeID string) (*EmployeeWorkSchedule, error)
}

// HolidayRepository lists company holidays.
type HolidayRepository interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}

// Holiday is a company-wide non-working day.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}
