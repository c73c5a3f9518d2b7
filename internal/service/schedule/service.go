package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
)

type workingDaysServiceImpl struct {
	schedule.WorkScheduleRepository
	schedule.HolidayRepository
	location *time.Location
	logger   *slog.Logger
}

func NewWorkingDaysService(
	scheduleRepo schedule.WorkScheduleRepository,
	holidayRepo schedule.HolidayRepository,
	location *time.Location,
	logger *slog.Logger,
) schedule.WorkingDaysService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &workingDaysServiceImpl{
		WorkScheduleRepository: scheduleRepo,
		HolidayRepository:      holidayRepo,
		location:               location,
		logger:                 logger,
	}
}

// Summary implements schedule.WorkingDaysService.
func (s *workingDaysServiceImpl) Summary(ctx context.Context, req schedule.WorkingDaysRequest) (schedule.WorkingDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkingDaysResponse{}, err
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.location)
	if err != nil {
		return schedule.WorkingDaysResponse{}, schedule.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, s.location)
	if err != nil {
		return schedule.WorkingDaysResponse{}, schedule.ErrInvalidDateFormat
	}

	employeeSchedule, err := s.WorkScheduleRepository.GetEmployeeSchedule(ctx, req.EmployeeID)
	if err != nil {
		return schedule.WorkingDaysResponse{}, fmt.Errorf("failed to get employee schedule: %w", err)
	}
	companySchedule, err := s.WorkScheduleRepository.GetCompanySchedule(ctx)
	if err != nil {
		return schedule.WorkingDaysResponse{}, fmt.Errorf("failed to get company schedule: %w", err)
	}
	holidays, err := s.HolidayRepository.ListBetween(ctx, start, end)
	if err != nil {
		return schedule.WorkingDaysResponse{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	calendar := NewCalendar(employeeSchedule, companySchedule, HolidaySet(holidays))
	lang := ParseAcceptLanguage(req.Language)

	days := calendar.WorkingDaysInRange(start, end)
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Format("2006-01-02"))
	}

	s.logger.Debug("working days computed",
		slog.String("employee_id", req.EmployeeID),
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate),
		slog.Int("count", len(dates)),
		slog.Int("holidays", len(holidays)),
	)

	return schedule.WorkingDaysResponse{
		EmployeeID:   req.EmployeeID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Count:        len(dates),
		Dates:        dates,
		Labels:       calendar.WorkingDaysLabels(lang),
		ScheduleInfo: calendar.ScheduleInfo(lang),
	}, nil
}
