package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type profileRepositoryImpl struct {
	db *database.DB
}

// ListByIDs implements employee.ProfileRepository.
func (p *profileRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]employee.Profile, error) {
	if len(ids) == 0 {
		return []employee.Profile{}, nil
	}

	q := GetQuerier(ctx, p.db)

	rows, err := q.Query(ctx,
		`SELECT id, first_name, last_name, email FROM profiles WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]employee.Profile, 0, len(ids))
	for rows.Next() {
		var pr employee.Profile
		if err := rows.Scan(&pr.ID, &pr.FirstName, &pr.LastName, &pr.Email); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, pr)
	}

	return profiles, rows.Err()
}

func NewProfileRepository(db *database.DB) employee.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}
