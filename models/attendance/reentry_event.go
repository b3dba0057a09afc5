package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// ReentryEvent actions.
const (
	ActionFirstIn  = "FIRST_IN"
	ActionReentry  = "REENTRY"
	ActionIntruder = "INTRUDER"
)

var validReentryActions = map[string]bool{
	ActionFirstIn:  true,
	ActionReentry:  true,
	ActionIntruder: true,
}

// ReentryEvent logs every recognition outcome that touches an existing
// attendance row or an unenrolled match, for the suspicious-activity audit
// trail described in spec.md.
type ReentryEvent struct {
	base.Model `bun:"schema:attendance,table:reentry_events"`
	SessionID  int64   `bun:"session_id,notnull" json:"session_id"`
	StudentID  int64   `bun:"student_id,notnull" json:"student_id"`
	Action     string  `bun:"action,notnull" json:"action"`
	Suspicious bool    `bun:"suspicious,notnull,default:false" json:"suspicious"`
	FrameKey   *string `bun:"frame_key" json:"frame_key,omitempty"`
}

// TableName returns the table name for the ReentryEvent model.
func (r *ReentryEvent) TableName() string {
	return "attendance.reentry_events"
}

// GetID returns the event ID.
func (r *ReentryEvent) GetID() interface{} {
	return r.ID
}

// GetCreatedAt returns the creation timestamp.
func (r *ReentryEvent) GetCreatedAt() time.Time {
	return r.CreatedAt
}

// GetUpdatedAt returns the last update timestamp.
func (r *ReentryEvent) GetUpdatedAt() time.Time {
	return r.UpdatedAt
}

// Validate validates the reentry event fields.
func (r *ReentryEvent) Validate() error {
	if r.SessionID <= 0 {
		return errors.New("session ID is required")
	}
	if r.StudentID <= 0 {
		return errors.New("student ID is required")
	}
	if !validReentryActions[r.Action] {
		return errors.New("invalid reentry action")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database.
func (r *ReentryEvent) BeforeAppend() error {
	return r.Model.BeforeAppend()
}

// ReentryEventRepository defines operations for working with reentry events.
type ReentryEventRepository interface {
	base.Repository[*ReentryEvent]
	ListBySession(ctx context.Context, sessionID int64) ([]*ReentryEvent, error)
	ListSuspiciousByStudent(ctx context.Context, studentID int64) ([]*ReentryEvent, error)
}
