package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	attendance.LegacyAttendanceRepository
	employee.ProfileRepository
	schedule.WorkScheduleRepository

	validator   *ConflictValidator
	lateness    *LatenessCalculator
	paths       attendance.PathGenerator
	invalidator attendance.CacheInvalidator
	notifier    notification.Notifier
	cache       cache.Store
	group       singleflight.Group
	metrics     *metrics.Metrics
	location    *time.Location
	logger      *slog.Logger
}

// Dependencies groups the collaborators of AttendanceServiceImpl.
type Dependencies struct {
	Attendances       attendance.AttendanceRepository
	LegacyAttendances attendance.LegacyAttendanceRepository
	Profiles          employee.ProfileRepository
	Schedules         schedule.WorkScheduleRepository
	Validator         *ConflictValidator
	Lateness          *LatenessCalculator
	Paths             attendance.PathGenerator
	Invalidator       attendance.CacheInvalidator
	Notifier          notification.Notifier
	Cache             cache.Store
	Metrics           *metrics.Metrics
	Location          *time.Location
	Logger            *slog.Logger
}

func NewAttendanceService(deps Dependencies) *AttendanceServiceImpl {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewRedisCache(nil, "", 0)
	}
	return &AttendanceServiceImpl{
		AttendanceRepository:       deps.Attendances,
		LegacyAttendanceRepository: deps.LegacyAttendances,
		ProfileRepository:          deps.Profiles,
		WorkScheduleRepository:     deps.Schedules,
		validator:                  deps.Validator,
		lateness:                   deps.Lateness,
		paths:                      deps.Paths,
		invalidator:                deps.Invalidator,
		notifier:                   deps.Notifier,
		cache:                      deps.Cache,
		metrics:                    deps.Metrics,
		location:                   deps.Location,
		logger:                     deps.Logger,
	}
}

// CreateManualAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateManualAttendance(ctx context.Context, req attendance.CreateManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	caller, err := auth.CallerFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp, err := s.createManualAttendance(ctx, caller, req)
	if err != nil {
		s.notifyFailure(ctx, caller, err)
		return attendance.AttendanceResponse{}, err
	}

	s.notify(ctx, notification.Notification{
		UserID:      caller.UserID,
		Title:       "Attendance recorded",
		Description: fmt.Sprintf("Manual attendance for %s saved", resp.Date),
		Severity:    notification.SeverityDefault,
	})

	return resp, nil
}

func (s *AttendanceServiceImpl) createManualAttendance(ctx context.Context, caller auth.Caller, req attendance.CreateManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	entry, err := req.Parse(s.location)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.validator.Validate(ctx, entry.EmployeeID, entry.Date, caller.IsAdmin); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	operationPath, err := s.paths.OperationPath(ctx, attendance.OperationManualAttendance, entry.EmployeeID, entry.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate operation path: %w", err)
	}
	readableID := s.paths.ReadableID(attendance.OperationManualAttendance, entry.Date, entry.EmployeeID)

	var lateness attendance.Lateness
	if entry.CheckIn != nil {
		employeeSchedule, err := s.WorkScheduleRepository.GetEmployeeSchedule(ctx, entry.EmployeeID)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee schedule: %w", err)
		}
		companySchedule, err := s.WorkScheduleRepository.GetCompanySchedule(ctx)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get company schedule: %w", err)
		}
		lateness = s.lateness.Calculate(ctx, *entry.CheckIn, entry.EmployeeID, employeeSchedule, companySchedule)
	}

	notes := readableID
	if entry.Notes != nil {
		notes = *entry.Notes + " - " + readableID
	}
	createdBy := caller.UserID

	saved, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		EmployeeID:    entry.EmployeeID,
		Date:          entry.Date,
		CheckIn:       entry.CheckIn,
		CheckOut:      entry.CheckOut,
		IsManual:      true,
		IsLate:        lateness.IsLate,
		LateMinutes:   lateness.LateMinutes,
		Notes:         &notes,
		OperationPath: &operationPath,
		ReadableID:    &readableID,
		CreatedBy:     &createdBy,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to save manual attendance: %w", err)
	}

	s.invalidate(ctx)

	s.logger.Info("manual attendance recorded",
		slog.String("attendance_id", saved.ID),
		slog.String("employee_id", saved.EmployeeID),
		slog.String("date", entry.Date.Format("2006-01-02")),
		slog.Bool("is_late", saved.IsLate),
		slog.Int("late_minutes", saved.LateMinutes),
		slog.String("created_by", caller.UserID),
	)

	return s.toResponse(saved), nil
}

// ListAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendances(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	caller, err := auth.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	scope := "employee:" + caller.UserID
	if caller.IsAdmin {
		scope = "all"
	}

	var cached []attendance.AttendanceResponse
	err = s.cache.Get(ctx, attendance.CacheKeyUnifiedAttendances, scope, &cached)
	if err == nil {
		s.metrics.RecordCacheLookup(attendance.CacheKeyUnifiedAttendances, true)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("attendance cache read failed", slog.String("scope", scope), slog.String("error", err.Error()))
	}
	s.metrics.RecordCacheLookup(attendance.CacheKeyUnifiedAttendances, false)

	// Loads that started before an invalidation must neither be joined by
	// later callers nor written back, so the flight is keyed by generation.
	generation, genErr := s.cache.Generation(ctx, attendance.CacheKeyUnifiedAttendances)
	if genErr != nil {
		s.logger.Warn("attendance cache generation read failed", slog.String("scope", scope), slog.String("error", genErr.Error()))
	}

	ch := s.group.DoChan(fmt.Sprintf("%s@%d", scope, generation), func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		responses, err := s.loadAttendances(loadCtx, caller)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			return responses, nil
		}
		written, err := s.cache.Set(loadCtx, attendance.CacheKeyUnifiedAttendances, scope, generation, responses)
		if err != nil {
			s.logger.Warn("attendance cache write failed", slog.String("scope", scope), slog.String("error", err.Error()))
		} else if !written {
			s.logger.Debug("attendance cache write skipped after invalidation", slog.String("scope", scope))
		}
		return responses, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]attendance.AttendanceResponse), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *AttendanceServiceImpl) loadAttendances(ctx context.Context, caller auth.Caller) ([]attendance.AttendanceResponse, error) {
	var employeeID *string
	if !caller.IsAdmin {
		employeeID = &caller.UserID
	}

	records, err := s.AttendanceRepository.List(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	if caller.IsAdmin && len(records) > 0 {
		s.attachProfiles(ctx, records)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, s.toResponse(record))
	}
	return responses, nil
}

// attachProfiles enriches records in place. Lookup failures leave them bare.
func (s *AttendanceServiceImpl) attachProfiles(ctx context.Context, records []attendance.Attendance) {
	seen := make(map[string]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}

	profiles, err := s.ProfileRepository.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("profile lookup failed, listing attendances without profiles",
			slog.Int("employees", len(ids)),
			slog.String("error", err.Error()),
		)
		return
	}

	byID := make(map[string]employee.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	for i := range records {
		if p, ok := byID[records[i].EmployeeID]; ok {
			profile := p
			records[i].Profile = &profile
		}
	}
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	caller, err := auth.CallerFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.deleteAttendance(ctx, caller, id); err != nil {
		s.notifyFailure(ctx, caller, err)
		return err
	}

	s.notify(ctx, notification.Notification{
		UserID:      caller.UserID,
		Title:       "Attendance deleted",
		Description: "The attendance record was deleted",
		Severity:    notification.SeverityDefault,
	})
	return nil
}

func (s *AttendanceServiceImpl) deleteAttendance(ctx context.Context, caller auth.Caller, id string) error {
	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsAdmin && record.EmployeeID != caller.UserID {
		return auth.ErrAdminPrivilegeRequired
	}

	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if !record.IsManual {
		if err := s.LegacyAttendanceRepository.DeleteByEmployeeAndDate(ctx, record.EmployeeID, record.Date); err != nil {
			s.logger.Warn("legacy attendance cleanup failed",
				slog.String("attendance_id", id),
				slog.String("employee_id", record.EmployeeID),
				slog.String("date", record.Date.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
		}
	}

	s.invalidate(ctx)

	s.logger.Info("attendance deleted",
		slog.String("attendance_id", id),
		slog.String("employee_id", record.EmployeeID),
		slog.String("deleted_by", caller.UserID),
	)
	return nil
}

func (s *AttendanceServiceImpl) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, attendance.InvalidatedKeys...); err != nil {
		s.logger.Warn("cache invalidation failed",
			slog.Any("keys", attendance.InvalidatedKeys),
			slog.String("error", err.Error()),
		)
	}
}

func (s *AttendanceServiceImpl) notify(ctx context.Context, n notification.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, n)
}

func (s *AttendanceServiceImpl) notifyFailure(ctx context.Context, caller auth.Caller, err error) {
	s.notify(ctx, notification.Notification{
		UserID:      caller.UserID,
		Title:       "Error",
		Description: err.Error(),
		Severity:    notification.SeverityDestructive,
	})
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		Date:           a.Date.Format("2006-01-02"),
		CheckInTime:    s.timePtrToString(a.CheckIn),
		CheckOutTime:   s.timePtrToString(a.CheckOut),
		IsBusinessTrip: a.IsBusinessTrip,
		IsManual:       a.IsManual,
		IsLate:         a.IsLate,
		LateMinutes:    a.LateMinutes,
		Notes:          a.Notes,
		OperationPath:  a.OperationPath,
		ReadableID:     a.ReadableID,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		Profile:        a.Profile,
	}
}

// timePtrToString formats t in the service location.
func (s *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.location).Format(time.RFC3339)
	return &formatted
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
