package sessions

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
)

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	CourseID             int64     `json:"courseId"`
	StartsAt             time.Time `json:"startsAt"`
	EndsAt               time.Time `json:"endsAt"`
	LateThresholdMinutes int       `json:"lateThresholdMinutes,omitempty"`
}

// Bind validates the create-session request.
func (req *CreateSessionRequest) Bind(_ *http.Request) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.CourseID, validation.Required),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
	); err != nil {
		return err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return errEndBeforeStart
	}
	if req.LateThresholdMinutes <= 0 {
		req.LateThresholdMinutes = 5
	}
	return nil
}

// SessionResponse mirrors models/attendance.Session for the wire.
type SessionResponse struct {
	ID                   int64     `json:"id"`
	CourseID             int64     `json:"courseId"`
	TimetableSlotID      *int64    `json:"timetableSlotId,omitempty"`
	StartsAt             time.Time `json:"startsAt"`
	EndsAt               time.Time `json:"endsAt"`
	LateThresholdMinutes int       `json:"lateThresholdMinutes"`
	Status               string    `json:"status"`
	AutoCreated          bool      `json:"autoCreated"`
}

func newSessionResponse(s *attendanceModels.Session) SessionResponse {
	return SessionResponse{
		ID:                   s.ID,
		CourseID:             s.CourseID,
		TimetableSlotID:      s.TimetableSlotID,
		StartsAt:             s.StartsAt,
		EndsAt:               s.EndsAt,
		LateThresholdMinutes: s.LateThresholdMinutes,
		Status:               s.Status,
		AutoCreated:          s.AutoCreated,
	}
}

// AttendanceRowResponse mirrors models/attendance.Attendance for the wire.
type AttendanceRowResponse struct {
	SessionID    int64      `json:"sessionId"`
	StudentID    int64      `json:"studentId"`
	Status       string     `json:"status"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	LastSeenTime *time.Time `json:"lastSeenTime,omitempty"`
	Confidence   *float64   `json:"confidence,omitempty"`
	Method       string     `json:"method"`
}

func newAttendanceRowResponse(a *attendanceModels.Attendance) AttendanceRowResponse {
	return AttendanceRowResponse{
		SessionID:    a.SessionID,
		StudentID:    a.StudentID,
		Status:       a.Status,
		CheckInTime:  a.CheckInTime,
		LastSeenTime: a.LastSeenTime,
		Confidence:   a.Confidence,
		Method:       a.Method,
	}
}
