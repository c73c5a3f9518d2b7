package attendance

import (
	"context"
	"time"
)

// CacheInvalidator drops cached views so that dependent readers refetch.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// PathGenerator derives the organizational path and human readable id of an operation.
type PathGenerator interface {
	OperationPath(ctx context.Context, kind, employeeID string, day time.Time) (string, error)
	ReadableID(kind string, day time.Time, employeeID string) string
}
