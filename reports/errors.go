package reports

import "errors"

var (
	// ErrInvalidRequest marks a caller error in the report request.
	// Fatal, never retried.
	ErrInvalidRequest = errors.New("reports: invalid request")

	// ErrNotFound means the report id is unknown within the caller's scope.
	ErrNotFound = errors.New("reports: report not found")

	// ErrNotReady means the report exists but has not completed.
	ErrNotReady = errors.New("reports: report not ready")

	// ErrRender marks an I/O failure while writing the rendered document.
	ErrRender = errors.New("reports: render failed")

	// ErrStatusConflict marks a rejected status transition. Transitions
	// are monotonic: pending -> processing -> completed | failed.
	ErrStatusConflict = errors.New("reports: conflicting status transition")
)
