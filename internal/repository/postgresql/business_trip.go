package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type businessTripRepositoryImpl struct {
	db *database.DB
}

// ListApprovedCovering implements leave.BusinessTripRepository.
func (b *businessTripRepositoryImpl) ListApprovedCovering(ctx context.Context, employeeID string, day time.Time) ([]leave.BusinessTrip, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, employee_id, status, start_date, end_date, destination, created_at
		FROM business_trips
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $2::date
		  AND end_date >= $2::date
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list business trips: %w", err)
	}
	defer rows.Close()

	trips := []leave.BusinessTrip{}
	for rows.Next() {
		var bt leave.BusinessTrip
		if err := rows.Scan(&bt.ID, &bt.EmployeeID, &bt.Status, &bt.StartDate, &bt.EndDate, &bt.Destination, &bt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan business trip: %w", err)
		}
		trips = append(trips, bt)
	}

	return trips, rows.Err()
}

func NewBusinessTripRepository(db *database.DB) leave.BusinessTripRepository {
	return &businessTripRepositoryImpl{db: db}
}
