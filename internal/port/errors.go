package port

import "errors"

// ErrDuplicate is returned by repositories when a unique constraint is violated.
var ErrDuplicate = errors.New("repository: duplicate entry")

var (
	// ErrSchedulingUnavailable is returned when no task queue is configured.
	ErrSchedulingUnavailable = errors.New("scheduling is not available: no task queue configured")
	// ErrStorageUnavailable is returned when no object storage is configured.
	ErrStorageUnavailable = errors.New("media storage is not configured")
)
