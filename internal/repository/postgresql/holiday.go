package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

// ListBetween implements schedule.HolidayRepository.
func (h *holidayRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]schedule.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, date, name
		FROM company_holidays
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := []schedule.Holiday{}
	for rows.Next() {
		var hd schedule.Holiday
		if err := rows.Scan(&hd.ID, &hd.Date, &hd.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hd)
	}

	return holidays, rows.Err()
}

func NewHolidayRepository(db *database.DB) schedule.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}
