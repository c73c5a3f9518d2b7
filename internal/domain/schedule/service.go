package schedule

import "context"

// WorkingDaysService answers working-day questions for an employee.
type WorkingDaysService interface {
	Summary(ctx context.Context, req WorkingDaysRequest) (WorkingDaysResponse, error)
}
