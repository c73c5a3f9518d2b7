package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, date, check_in_time, check_out_time,
	is_manual, is_business_trip, is_late, late_minutes,
	notes, operation_path, readable_id, created_by::text, created_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.IsManual, &att.IsBusinessTrip, &att.IsLate, &att.LateMinutes,
		&att.Notes, &att.OperationPath, &att.ReadableID, &att.CreatedBy, &att.CreatedAt,
	)
	return att, err
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO unified_attendances (
			employee_id, date, check_in_time, check_out_time,
			is_manual, is_business_trip, is_late, late_minutes,
			notes, operation_path, readable_id, created_by
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in_time    = EXCLUDED.check_in_time,
			check_out_time   = EXCLUDED.check_out_time,
			is_manual        = EXCLUDED.is_manual,
			is_business_trip = EXCLUDED.is_business_trip,
			is_late          = EXCLUDED.is_late,
			late_minutes     = EXCLUDED.late_minutes,
			notes            = EXCLUDED.notes,
			operation_path   = EXCLUDED.operation_path,
			readable_id      = EXCLUDED.readable_id,
			created_by       = EXCLUDED.created_by,
			updated_at       = now()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		att.EmployeeID,
		att.Date.Format("2006-01-02"),
		att.CheckIn,
		att.CheckOut,
		att.IsManual,
		att.IsBusinessTrip,
		att.IsLate,
		att.LateMinutes,
		att.Notes,
		att.OperationPath,
		att.ReadableID,
		att.CreatedBy,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return saved, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM unified_attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM unified_attendances
		WHERE ($1::uuid IS NULL OR employee_id = $1::uuid)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM unified_attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

type legacyAttendanceRepository struct {
	db *database.DB
}

// DeleteByEmployeeAndDate implements attendance.LegacyAttendanceRepository.
func (l *legacyAttendanceRepository) DeleteByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, l.db)

	_, err := q.Exec(ctx,
		`DELETE FROM attendances WHERE employee_id = $1 AND date = $2::date`,
		employeeID, date.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to delete legacy attendance: %w", err)
	}

	return nil
}

func NewLegacyAttendanceRepository(db *database.DB) attendance.LegacyAttendanceRepository {
	return &legacyAttendanceRepository{db: db}
}
