package attendance

import (
	"errors"
)

var (
	ErrAttendanceNotFound    = errors.New("attendance record not found")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must not be before check-in")

	// Conflict severities, matched with errors.Is against a *ConflictError.
	ErrHardConflict = errors.New("attendance conflicts with an approved absence")
	ErrSoftConflict = errors.New("attendance conflicts with an approved permission")
)

type ConflictKind string

const (
	ConflictBusinessTrip ConflictKind = "business_trip"
	ConflictSickLeave    ConflictKind = "sick_leave"
	ConflictVacation     ConflictKind = "vacation"
	ConflictPermission   ConflictKind = "permission"
)

// Hard reports whether the kind can never be overridden, not even by an admin.
func (k ConflictKind) Hard() bool {
	return k != ConflictPermission
}

// ConflictError is raised when a manual entry overlaps an absence record.
type ConflictError struct {
	Kind    ConflictKind
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	if e.Kind.Hard() {
		return ErrHardConflict
	}
	return ErrSoftConflict
}
