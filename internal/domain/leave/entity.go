package leave

import "time"

type LeaveType string

const (
	LeaveTypeVacation   LeaveType = "vacation"
	LeaveTypePermission LeaveType = "permission"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// DateRange is closed on both ends and compared by calendar day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether day falls inside the range, both ends included.
func (r DateRange) Covers(day time.Time) bool {
	d := civil(day)
	return !d.Before(civil(r.Start)) && !d.After(civil(r.End))
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + " to " + r.End.Format("2006-01-02")
}

// civil drops the clock and location so that dates compare as calendar days.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return civil(a).Equal(civil(b))
}

// LeaveRequest is either a vacation over a date range or a permission on a
// single day, optionally limited to a time window.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	Status     LeaveRequestStatus

	// Vacation range
	DateFrom *time.Time
	DateTo   *time.Time

	// Permission day and optional window (HH:MM[:SS])
	Day      *time.Time
	TimeFrom *string
	TimeTo   *string

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHourly reports whether the permission is limited to a time window.
func (l LeaveRequest) IsHourly() bool {
	return l.TimeFrom != nil && *l.TimeFrom != "" && l.TimeTo != nil && *l.TimeTo != ""
}

// Range returns the vacation range, false when either end is missing.
func (l LeaveRequest) Range() (DateRange, bool) {
	if l.DateFrom == nil || l.DateTo == nil {
		return DateRange{}, false
	}
	return DateRange{Start: *l.DateFrom, End: *l.DateTo}, true
}

// IsApproved reports whether the request is authoritative for conflict checks.
func (l LeaveRequest) IsApproved() bool {
	return l.Status == LeaveRequestStatusApproved
}

type BusinessTripStatus string

const (
	BusinessTripStatusPending  BusinessTripStatus = "pending"
	BusinessTripStatusApproved BusinessTripStatus = "approved"
	BusinessTripStatusRejected BusinessTripStatus = "rejected"
)

type BusinessTrip struct {
	ID          string
	EmployeeID  string
	Status      BusinessTripStatus
	StartDate   time.Time
	EndDate     time.Time
	Destination string
	CreatedAt   time.Time
}

func (b BusinessTrip) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

type SickLeave struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Notes      *string
	CreatedAt  time.Time
}

func (s SickLeave) Range() DateRange {
	return DateRange{Start: s.StartDate, End: s.EndDate}
}
