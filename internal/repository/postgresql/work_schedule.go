package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

// GetCompanySchedule implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetCompanySchedule(ctx context.Context) (*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			   start_time::text, end_time::text, tolerance_minutes, created_at, updated_at
		FROM work_schedules
		ORDER BY created_at
		LIMIT 1
	`

	var ws schedule.WorkSchedule
	err := q.QueryRow(ctx, query).Scan(
		&ws.ID,
		&ws.Days.Monday, &ws.Days.Tuesday, &ws.Days.Wednesday, &ws.Days.Thursday,
		&ws.Days.Friday, &ws.Days.Saturday, &ws.Days.Sunday,
		&ws.StartTime, &ws.EndTime, &ws.ToleranceMinutes, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company schedule: %w", err)
	}

	return &ws, nil
}

// GetEmployeeSchedule implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetEmployeeSchedule(ctx context.Context, employeeID string) (*schedule.EmployeeWorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, employee_id, work_days,
			   monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			   start_time::text, end_time::text, created_at, updated_at
		FROM employee_work_schedules
		WHERE employee_id = $1
	`

	var (
		ews      schedule.EmployeeWorkSchedule
		workDays []string
		flags    schedule.WeekdayFlags
	)
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&ews.ID, &ews.EmployeeID, &workDays,
		&flags.Monday, &flags.Tuesday, &flags.Wednesday, &flags.Thursday,
		&flags.Friday, &flags.Saturday, &flags.Sunday,
		&ews.StartTime, &ews.EndTime, &ews.CreatedAt, &ews.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee schedule: %w", err)
	}

	// A NULL work_days array selects the per-weekday columns.
	if workDays != nil {
		ews.WorkDays = schedule.NamedWorkDays(workDays...)
	} else {
		ews.WorkDays = schedule.FlaggedWorkDays(flags)
	}

	return &ews, nil
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}
