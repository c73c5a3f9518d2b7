package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores unified attendance rows.
type AttendanceRepository interface {
	// Upsert inserts or replaces the row for (employee_id, date) and returns it.
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrAttendanceNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// List returns rows ordered by date, newest first. A nil employeeID lists everybody.
	List(ctx context.Context, employeeID *string) ([]Attendance, error)

	Delete(ctx context.Context, id string) error
}

// LegacyAttendanceRepository is the older per-check-in table still written by
// automatic check-ins.
type LegacyAttendanceRepository interface {
	DeleteByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) error
}
