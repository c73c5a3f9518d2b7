package attendance

import (
	"context"
)

// AttendanceService defines business logic for unified attendance records
type AttendanceService interface {
	// CreateManualAttendance validates conflicts, computes lateness and upserts the record
	CreateManualAttendance(ctx context.Context, req CreateManualAttendanceRequest) (AttendanceResponse, error)

	// ListAttendances returns every record for admins, the caller's own otherwise
	ListAttendances(ctx context.Context) ([]AttendanceResponse, error)

	// DeleteAttendance removes a record, cleaning the legacy table for automatic ones
	DeleteAttendance(ctx context.Context, id string) error
}
