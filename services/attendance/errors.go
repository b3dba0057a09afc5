package attendance

import (
	"errors"
	"fmt"
)

// Sentinel errors. Domain outcomes (MARKED, INTRUDER, UNKNOWN_FACE, ...) are
// NOT errors — they are success-path results returned via RecognizeResult.
// These sentinels cover the input/transient/fatal taxonomy from spec.md §7.
var (
	// ErrNoActiveSession means no session in ACTIVE status exists for the
	// scope at the current time.
	ErrNoActiveSession = errors.New("no active session")
	// ErrAmbiguousSession means more than one ACTIVE session matched the
	// scope and the caller did not disambiguate.
	ErrAmbiguousSession = errors.New("ambiguous session: multiple active sessions match scope")
	// ErrSessionClosed means the target session is COMPLETED or CANCELLED.
	ErrSessionClosed = errors.New("session is closed")
	// ErrInvalidTransition means the requested session status transition
	// is not allowed from its current status.
	ErrInvalidTransition = errors.New("invalid session status transition")
	// ErrNotEnrolled means the student is not enrolled in the session's
	// course, so no attendance row may be created for them manually.
	ErrNotEnrolled = errors.New("student is not enrolled in this course")
)

// Error wraps attendance-service failures with the operation that failed,
// mirroring services/active's ActiveError and services/enrollment's Error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attendance: %s: unknown error", e.Op)
	}
	return fmt.Sprintf("attendance: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
