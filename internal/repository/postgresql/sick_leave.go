package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type sickLeaveRepositoryImpl struct {
	db *database.DB
}

// ListCovering implements leave.SickLeaveRepository.
func (s *sickLeaveRepositoryImpl) ListCovering(ctx context.Context, employeeID string, day time.Time) ([]leave.SickLeave, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, start_date, end_date, notes, created_at
		FROM sick_leaves
		WHERE employee_id = $1
		  AND start_date <= $2::date
		  AND end_date >= $2::date
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list sick leaves: %w", err)
	}
	defer rows.Close()

	sickLeaves := []leave.SickLeave{}
	for rows.Next() {
		var sl leave.SickLeave
		if err := rows.Scan(&sl.ID, &sl.EmployeeID, &sl.StartDate, &sl.EndDate, &sl.Notes, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sick leave: %w", err)
		}
		sickLeaves = append(sickLeaves, sl)
	}

	return sickLeaves, rows.Err()
}

func NewSickLeaveRepository(db *database.DB) leave.SickLeaveRepository {
	return &sickLeaveRepositoryImpl{db: db}
}
