package schedule

import "errors"

var (
	ErrInvalidClock       = errors.New("invalid clock time, use HH:MM or HH:MM:SS")
	ErrInvalidDateRange   = errors.New("end_date must not be before start_date")
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
)
