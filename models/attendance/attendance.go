package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Attendance status values.
const (
	StatusPresent  = "PRESENT"
	StatusLate     = "LATE"
	StatusAbsent   = "ABSENT"
	StatusIntruder = "INTRUDER"
)

var validAttendanceStatuses = map[string]bool{
	StatusPresent:  true,
	StatusLate:     true,
	StatusAbsent:   true,
	StatusIntruder: true,
}

// IsValidAttendanceStatus reports whether s is a recognized attendance status.
func IsValidAttendanceStatus(s string) bool {
	return validAttendanceStatuses[s]
}

// Attendance methods.
const (
	MethodAuto   = "AUTO"
	MethodManual = "MANUAL"
)

// Attendance records a single student's outcome for a single session. At
// most one row exists per (session_id, student_id); status is immutable
// once set (see the Store's upsert semantics).
type Attendance struct {
	base.Model     `bun:"schema:attendance,table:attendance"`
	SessionID      int64      `bun:"session_id,notnull" json:"session_id"`
	StudentID      int64      `bun:"student_id,notnull" json:"student_id"`
	Status         string     `bun:"status,notnull" json:"status"`
	CheckInTime    *time.Time `bun:"check_in_time" json:"check_in_time,omitempty"`
	LastSeenTime   *time.Time `bun:"last_seen_time" json:"last_seen_time,omitempty"`
	Confidence     *float64   `bun:"confidence" json:"confidence,omitempty"`
	Method         string     `bun:"method,notnull,default:'AUTO'" json:"method"`
	Notes          string     `bun:"notes" json:"notes,omitempty"`
}

// TableName returns the table name for the Attendance model.
func (a *Attendance) TableName() string {
	return "attendance.attendance"
}

// GetID returns the attendance row ID.
func (a *Attendance) GetID() interface{} {
	return a.ID
}

// GetCreatedAt returns the creation timestamp.
func (a *Attendance) GetCreatedAt() time.Time {
	return a.CreatedAt
}

// GetUpdatedAt returns the last update timestamp.
func (a *Attendance) GetUpdatedAt() time.Time {
	return a.UpdatedAt
}

// Validate validates the attendance fields.
func (a *Attendance) Validate() error {
	if a.SessionID <= 0 {
		return errors.New("session ID is required")
	}
	if a.StudentID <= 0 {
		return errors.New("student ID is required")
	}
	if !IsValidAttendanceStatus(a.Status) {
		return errors.New("invalid attendance status")
	}
	if a.Method != MethodAuto && a.Method != MethodManual {
		return errors.New("invalid attendance method")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database.
func (a *Attendance) BeforeAppend() error {
	if err := a.Model.BeforeAppend(); err != nil {
		return err
	}
	if a.Method == "" {
		a.Method = MethodAuto
	}
	return nil
}

// AttendanceRepository defines operations for working with attendance rows.
type AttendanceRepository interface {
	base.Repository[*Attendance]

	FindBySessionAndStudent(ctx context.Context, sessionID, studentID int64) (*Attendance, error)
	ListBySession(ctx context.Context, sessionID int64) ([]*Attendance, error)

	// Upsert implements the Store's upsert_attendance contract: if a row
	// exists for (sessionID, studentID) it only updates last_seen_time
	// and confidence; otherwise it inserts with check_in_time = now.
	// Returns the row and whether it already existed.
	Upsert(ctx context.Context, sessionID, studentID int64, status string, confidence *float64, now time.Time, method string) (row *Attendance, existed bool, err error)

	// Insert enforces the (session_id, student_id) unique constraint
	// fail-closed: a duplicate insert must return an error the caller
	// can recognize as a uniqueness violation.
	Insert(ctx context.Context, a *Attendance) error
}
