package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
)

// ConflictValidator rejects manual entries that overlap an absence record.
// Checks run one after the other and the first match wins.
type ConflictValidator struct {
	leave.BusinessTripRepository
	leave.SickLeaveRepository
	leave.LeaveRequestRepository
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewConflictValidator(
	tripRepo leave.BusinessTripRepository,
	sickRepo leave.SickLeaveRepository,
	leaveRepo leave.LeaveRequestRepository,
	logger *slog.Logger,
	m *metrics.Metrics,
) *ConflictValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictValidator{
		BusinessTripRepository: tripRepo,
		SickLeaveRepository:    sickRepo,
		LeaveRequestRepository: leaveRepo,
		logger:                 logger,
		metrics:                m,
	}
}

// Validate returns a *attendance.ConflictError when day overlaps a business trip,
// a sick leave, a vacation or, for non-admin callers, a permission.
func (v *ConflictValidator) Validate(ctx context.Context, employeeID string, day time.Time, isAdmin bool) error {
	trips, err := v.BusinessTripRepository.ListApprovedCovering(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to check business trips: %w", err)
	}
	for _, trip := range trips {
		if trip.Status != leave.BusinessTripStatusApproved || !trip.Range().Covers(day) {
			continue
		}
		return v.block(attendance.ConflictBusinessTrip, fmt.Sprintf(
			"critical conflict: employee is on a business trip to %s from %s, attendance cannot be recorded for this date",
			trip.Destination, trip.Range(),
		))
	}

	sickLeaves, err := v.SickLeaveRepository.ListCovering(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to check sick leaves: %w", err)
	}
	for _, sick := range sickLeaves {
		if !sick.Range().Covers(day) {
			continue
		}
		return v.block(attendance.ConflictSickLeave,
			"critical conflict: employee is already registered as on sick leave for this date")
	}

	vacations, err := v.LeaveRequestRepository.ListApprovedVacations(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to check vacations: %w", err)
	}
	for _, vacation := range vacations {
		r, ok := vacation.Range()
		if !ok || !vacation.IsApproved() || vacation.Type != leave.LeaveTypeVacation || !r.Covers(day) {
			continue
		}
		return v.block(attendance.ConflictVacation, fmt.Sprintf(
			"critical conflict: employee is on vacation from %s, attendance cannot be recorded for this date", r,
		))
	}

	permissions, err := v.LeaveRequestRepository.ListApprovedPermissions(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to check permissions: %w", err)
	}
	permission, ok := reportedPermission(permissions, day)
	if !ok {
		return nil
	}

	message := "conflict: employee has a daily permission for this date"
	if permission.IsHourly() {
		message = fmt.Sprintf("conflict: employee has an hourly permission from %s to %s",
			schedule.FormatClock(*permission.TimeFrom), schedule.FormatClock(*permission.TimeTo))
	}

	if isAdmin {
		v.metrics.RecordConflict(string(attendance.ConflictPermission), "overridden")
		v.logger.Warn("admin override of permission conflict",
			slog.String("employee_id", employeeID),
			slog.String("date", day.Format("2006-01-02")),
			slog.String("permission_id", permission.ID),
			slog.String("conflict", message),
		)
		return nil
	}

	return v.block(attendance.ConflictPermission, message)
}

func (v *ConflictValidator) block(kind attendance.ConflictKind, message string) error {
	v.metrics.RecordConflict(string(kind), "blocked")
	return &attendance.ConflictError{Kind: kind, Message: message}
}

// reportedPermission picks the permission surfaced in the conflict message:
// the earliest-starting hourly permission, or the first daily one when none is hourly.
func reportedPermission(permissions []leave.LeaveRequest, day time.Time) (leave.LeaveRequest, bool) {
	matching := make([]leave.LeaveRequest, 0, len(permissions))
	for _, p := range permissions {
		if !p.IsApproved() || p.Type != leave.LeaveTypePermission {
			continue
		}
		if p.Day != nil && !leave.SameDay(*p.Day, day) {
			continue
		}
		matching = append(matching, p)
	}
	if len(matching) == 0 {
		return leave.LeaveRequest{}, false
	}

	sort.SliceStable(matching, func(i, j int) bool {
		a, b := matching[i], matching[j]
		if a.IsHourly() != b.IsHourly() {
			return a.IsHourly()
		}
		if a.IsHourly() {
			return schedule.FormatClock(*a.TimeFrom) < schedule.FormatClock(*b.TimeFrom)
		}
		return false
	})

	return matching[0], true
}
