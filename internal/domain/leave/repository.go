package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository reads approved leave requests for conflict and lateness checks.
type LeaveRequestRepository interface {
	// ListApprovedVacations returns approved vacations whose range contains day.
	ListApprovedVacations(ctx context.Context, employeeID string, day time.Time) ([]LeaveRequest, error)

	// ListApprovedPermissions returns approved permissions for exactly day.
	ListApprovedPermissions(ctx context.Context, employeeID string, day time.Time) ([]LeaveRequest, error)
}

type BusinessTripRepository interface {
	// ListApprovedCovering returns approved trips whose range contains day.
	ListApprovedCovering(ctx context.Context, employeeID string, day time.Time) ([]BusinessTrip, error)
}

type SickLeaveRepository interface {
	// ListCovering returns sick leaves whose range contains day.
	ListCovering(ctx context.Context, employeeID string, day time.Time) ([]SickLeave, error)
}
