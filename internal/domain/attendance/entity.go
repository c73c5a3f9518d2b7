package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
)

// Attendance is a row of unified_attendances: one per employee and date.
type Attendance struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	IsManual       bool
	IsBusinessTrip bool
	IsLate         bool
	LateMinutes    int
	Notes          *string
	OperationPath  *string
	ReadableID     *string
	CreatedBy      *string
	CreatedAt      time.Time

	// Admin listings only
	Profile *employee.Profile
}

// Lateness is the outcome of comparing a check-in against the schedule.
type Lateness struct {
	IsLate      bool
	LateMinutes int
}

// OperationManualAttendance is the path/id kind used for manual entries.
const OperationManualAttendance = "manual_attendance"

// Query keys whose cached views must be refreshed after any create or delete.
const (
	CacheKeyUnifiedAttendances = "unified-attendances"
	CacheKeyAttendances        = "attendances"
	CacheKeyEmployeeStatus     = "employee-status"
)

// InvalidatedKeys lists every key touched by an attendance write.
var InvalidatedKeys = []string{
	CacheKeyUnifiedAttendances,
	CacheKeyAttendances,
	CacheKeyEmployeeStatus,
}
