// Package attendance models the session lifecycle and attendance rows that
// make up the core of the attendance engine: Session, Attendance,
// ReentryEvent, and FinalizationJob.
package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Session status values. Transitions are one-way, as enumerated in
// CanTransitionTo.
const (
	SessionScheduled = "SCHEDULED"
	SessionActive    = "ACTIVE"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
)

var validSessionStatuses = map[string]bool{
	SessionScheduled: true,
	SessionActive:    true,
	SessionCompleted: true,
	SessionCancelled: true,
}

// IsValidSessionStatus reports whether s is a recognized session status.
func IsValidSessionStatus(s string) bool {
	return validSessionStatuses[s]
}

// Session is a concrete instance of a class meeting, with absolute start
// and end instants, derived from a TimetableSlot or created manually.
type Session struct {
	base.Model            `bun:"schema:attendance,table:sessions"`
	CourseID              int64      `bun:"course_id,notnull" json:"course_id"`
	TimetableSlotID       *int64     `bun:"timetable_slot_id" json:"timetable_slot_id,omitempty"`
	StartsAt              time.Time  `bun:"starts_at,notnull" json:"starts_at"`
	EndsAt                time.Time  `bun:"ends_at,notnull" json:"ends_at"`
	LateThresholdMinutes  int        `bun:"late_threshold_minutes,notnull,default:5" json:"late_threshold_minutes"`
	Status                string     `bun:"status,notnull,default:'SCHEDULED'" json:"status"`
	AutoCreated           bool       `bun:"auto_created,notnull,default:false" json:"auto_created"`
	Notes                 string     `bun:"notes" json:"notes,omitempty"`
}

// TableName returns the table name for the Session model.
func (s *Session) TableName() string {
	return "attendance.sessions"
}

// GetID returns the session ID.
func (s *Session) GetID() interface{} {
	return s.ID
}

// GetCreatedAt returns the creation timestamp.
func (s *Session) GetCreatedAt() time.Time {
	return s.CreatedAt
}

// GetUpdatedAt returns the last update timestamp.
func (s *Session) GetUpdatedAt() time.Time {
	return s.UpdatedAt
}

// Validate validates the session fields.
func (s *Session) Validate() error {
	if s.CourseID <= 0 {
		return errors.New("course ID is required")
	}
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() {
		return errors.New("starts_at and ends_at are required")
	}
	if !s.EndsAt.After(s.StartsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	if s.LateThresholdMinutes < 0 {
		return errors.New("late threshold minutes must be >= 0")
	}
	if s.Status == "" {
		s.Status = SessionScheduled
	}
	if !IsValidSessionStatus(s.Status) {
		return errors.New("invalid session status")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database.
func (s *Session) BeforeAppend() error {
	if err := s.Model.BeforeAppend(); err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = SessionScheduled
	}
	return nil
}

// LateCutoff returns the instant after which a first check-in is LATE
// rather than PRESENT.
func (s *Session) LateCutoff() time.Time {
	return s.StartsAt.Add(time.Duration(s.LateThresholdMinutes) * time.Minute)
}

// IsTerminal reports whether the session's status cannot change further.
func (s *Session) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

// CanTransitionTo reports whether the one-way state machine permits moving
// from s.Status to next.
func (s *Session) CanTransitionTo(next string) bool {
	switch s.Status {
	case SessionScheduled:
		return next == SessionActive || next == SessionCancelled
	case SessionActive:
		return next == SessionCompleted || next == SessionCancelled
	default:
		return false
	}
}

// SessionRepository defines operations for working with sessions.
type SessionRepository interface {
	base.Repository[*Session]

	// FindOrCreate returns the existing non-cancelled session for
	// (timetableSlotID, date(startsAt)) if one exists; otherwise it
	// inserts a new one built from the supplied fields. Must be atomic.
	FindOrCreate(ctx context.Context, timetableSlotID int64, date time.Time, startsAt, endsAt time.Time, lateThresholdMinutes int, status string) (session *Session, created bool, err error)

	FindByID(ctx context.Context, id int64) (*Session, error)
	ListActive(ctx context.Context, now time.Time) ([]*Session, error)
	ListDueToActivate(ctx context.Context, now time.Time) ([]*Session, error)
	ListDueToClose(ctx context.Context, now time.Time) ([]*Session, error)
	ListByDateAndStatus(ctx context.Context, date time.Time, status string) ([]*Session, error)

	// UpdateStatus performs a compare-and-swap style transition; it must
	// fail if the session is no longer in fromStatus, so that re-reads
	// inside a handler transaction observe a stale status safely.
	UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error
}
