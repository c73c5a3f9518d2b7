package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

const leaveRequestColumns = `
	id, employee_id, type, status, date_from, date_to, day,
	time_from::text, time_to::text, notes, created_at, updated_at
`

// ListApprovedVacations implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedVacations(ctx context.Context, employeeID string, day time.Time) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND type = 'vacation'
		  AND status = 'approved'
		  AND date_from <= $2::date
		  AND date_to >= $2::date
		ORDER BY date_from
	`
	return r.list(ctx, query, employeeID, day)
}

// ListApprovedPermissions implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedPermissions(ctx context.Context, employeeID string, day time.Time) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND type = 'permission'
		  AND status = 'approved'
		  AND day = $2::date
		ORDER BY time_from NULLS LAST
	`
	return r.list(ctx, query, employeeID, day)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query, employeeID string, day time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, employeeID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		var lr leave.LeaveRequest
		err := rows.Scan(
			&lr.ID,
			&lr.EmployeeID,
			&lr.Type,
			&lr.Status,
			&lr.DateFrom,
			&lr.DateTo,
			&lr.Day,
			&lr.TimeFrom,
			&lr.TimeTo,
			&lr.Notes,
			&lr.CreatedAt,
			&lr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, rows.Err()
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
