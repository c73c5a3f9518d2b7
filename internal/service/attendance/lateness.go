package attendance

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
)

// LatenessCalculator compares a check-in against the employee's resolved schedule.
type LatenessCalculator struct {
	leave.LeaveRequestRepository
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewLatenessCalculator(leaveRepo leave.LeaveRequestRepository, logger *slog.Logger, m *metrics.Metrics) *LatenessCalculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LatenessCalculator{
		LeaveRequestRepository: leaveRepo,
		logger:                 logger,
		metrics:                m,
	}
}

// Calculate returns whether checkIn is late and by how many whole minutes.
// The weekday and the expected start are evaluated in checkIn's location.
func (c *LatenessCalculator) Calculate(
	ctx context.Context,
	checkIn time.Time,
	employeeID string,
	employeeSchedule *schedule.EmployeeWorkSchedule,
	companySchedule *schedule.WorkSchedule,
) attendance.Lateness {
	resolved := schedule.Resolve(employeeSchedule, companySchedule)
	if !resolved.Exists() || !resolved.HasStartTime() {
		return attendance.Lateness{}
	}

	if !resolved.WorkDays.IsWorkedOn(checkIn.Weekday()) {
		return attendance.Lateness{}
	}

	expectedStart, err := schedule.At(checkIn, *resolved.StartTime)
	if err != nil {
		c.logger.Warn("unparseable schedule start time, skipping lateness",
			slog.String("employee_id", employeeID),
			slog.String("start_time", *resolved.StartTime),
			slog.String("error", err.Error()),
		)
		return attendance.Lateness{}
	}

	if shifted, ok := c.permissionEnd(ctx, checkIn, employeeID); ok {
		expectedStart = shifted
	}

	threshold := expectedStart.Add(time.Duration(schedule.ToleranceOf(companySchedule)) * time.Minute)

	// Minute precision: seconds of the check-in never make it late on their own.
	at := checkIn.Truncate(time.Minute)
	if !at.After(threshold) {
		c.metrics.RecordLateness(false)
		return attendance.Lateness{}
	}

	c.metrics.RecordLateness(true)
	return attendance.Lateness{
		IsLate:      true,
		LateMinutes: int(math.Floor(at.Sub(threshold).Minutes())),
	}
}

// permissionEnd returns the latest end of an approved hourly permission that
// finished at or before checkIn. Lookup failures degrade to "no permission".
func (c *LatenessCalculator) permissionEnd(ctx context.Context, checkIn time.Time, employeeID string) (time.Time, bool) {
	permissions, err := c.LeaveRequestRepository.ListApprovedPermissions(ctx, employeeID, checkIn)
	if err != nil {
		c.logger.Warn("permission lookup failed, computing lateness without permissions",
			slog.String("employee_id", employeeID),
			slog.String("date", checkIn.Format("2006-01-02")),
			slog.String("error", err.Error()),
		)
		return time.Time{}, false
	}

	var (
		latest time.Time
		found  bool
	)
	for _, p := range permissions {
		if !p.IsApproved() || !p.IsHourly() {
			continue
		}
		if p.Day != nil && !leave.SameDay(*p.Day, checkIn) {
			continue
		}
		end, err := schedule.At(checkIn, *p.TimeTo)
		if err != nil {
			continue
		}
		if end.After(checkIn) {
			continue
		}
		if !found || end.After(latest) {
			latest, found = end, true
		}
	}

	return latest, found
}
