package education

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Weekday values accepted by a TimetableSlot. Only weekdays are modeled;
// the timetable does not schedule weekend sessions.
const (
	WeekdayMonday    = "MON"
	WeekdayTuesday   = "TUE"
	WeekdayWednesday = "WED"
	WeekdayThursday  = "THU"
	WeekdayFriday    = "FRI"
)

var validWeekdays = map[string]bool{
	WeekdayMonday:    true,
	WeekdayTuesday:   true,
	WeekdayWednesday: true,
	WeekdayThursday:  true,
	WeekdayFriday:    true,
}

// IsValidWeekday reports whether w is one of the recognized weekday codes.
func IsValidWeekday(w string) bool {
	return validWeekdays[w]
}

// TimetableSlot is a recurring weekly cell mapping a (weekday, slot_index)
// to a course and a time-of-day window. StartTimeOfDay/EndTimeOfDay store
// only the time-of-day portion (date components are ignored by callers);
// the Scheduler combines them with the current local date to produce a
// Session's absolute starts_at/ends_at.
type TimetableSlot struct {
	base.Model           `bun:"schema:education,table:timetable_slots"`
	Weekday              string    `bun:"weekday,notnull" json:"weekday"`
	SlotIndex             int       `bun:"slot_index,notnull" json:"slot_index"`
	CourseID              int64     `bun:"course_id,notnull" json:"course_id"`
	StartTimeOfDay        time.Time `bun:"start_time_of_day,notnull" json:"start_time_of_day"`
	EndTimeOfDay          time.Time `bun:"end_time_of_day,notnull" json:"end_time_of_day"`
	LateThresholdMinutes  int       `bun:"late_threshold_minutes,notnull,default:5" json:"late_threshold_minutes"`
	Active                bool      `bun:"active,notnull,default:true" json:"active"`

	Course *Course `bun:"rel:belongs-to,join:course_id=id" json:"course,omitempty"`
}

// TableName returns the table name for the TimetableSlot model
func (s *TimetableSlot) TableName() string {
	return "education.timetable_slots"
}

// GetID returns the slot ID
func (s *TimetableSlot) GetID() interface{} {
	return s.ID
}

// GetCreatedAt returns the creation timestamp
func (s *TimetableSlot) GetCreatedAt() time.Time {
	return s.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (s *TimetableSlot) GetUpdatedAt() time.Time {
	return s.UpdatedAt
}

// Validate validates the timetable slot fields
func (s *TimetableSlot) Validate() error {
	if !IsValidWeekday(strings.ToUpper(s.Weekday)) {
		return errors.New("invalid weekday value")
	}
	if s.SlotIndex < 1 {
		return errors.New("slot index must be >= 1")
	}
	if s.CourseID <= 0 {
		return errors.New("course ID is required")
	}
	if !s.EndTimeOfDay.After(s.StartTimeOfDay) {
		return errors.New("end time of day must be after start time of day")
	}
	if s.LateThresholdMinutes < 0 {
		return errors.New("late threshold minutes must be >= 0")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database
func (s *TimetableSlot) BeforeAppend() error {
	if err := s.Model.BeforeAppend(); err != nil {
		return err
	}
	s.Weekday = strings.ToUpper(strings.TrimSpace(s.Weekday))
	return nil
}

// ResolveOn combines the slot's time-of-day window with date (in date's
// location) to produce the absolute starts_at/ends_at for a session
// materialized from this slot on that date.
func (s *TimetableSlot) ResolveOn(date time.Time) (startsAt, endsAt time.Time) {
	loc := date.Location()
	startsAt = time.Date(date.Year(), date.Month(), date.Day(),
		s.StartTimeOfDay.Hour(), s.StartTimeOfDay.Minute(), s.StartTimeOfDay.Second(), 0, loc)
	endsAt = time.Date(date.Year(), date.Month(), date.Day(),
		s.EndTimeOfDay.Hour(), s.EndTimeOfDay.Minute(), s.EndTimeOfDay.Second(), 0, loc)
	return startsAt, endsAt
}

// WeekdayCodeOf returns the WeekdayXxx code for t's weekday in t's own
// location, or "" for Saturday/Sunday.
func WeekdayCodeOf(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return WeekdayMonday
	case time.Tuesday:
		return WeekdayTuesday
	case time.Wednesday:
		return WeekdayWednesday
	case time.Thursday:
		return WeekdayThursday
	case time.Friday:
		return WeekdayFriday
	default:
		return ""
	}
}

// TimetableSlotRepository defines operations for working with timetable slots.
type TimetableSlotRepository interface {
	base.Repository[*TimetableSlot]
	FindActiveByWeekday(ctx context.Context, weekday string) ([]*TimetableSlot, error)
	FindByWeekdayAndSlotIndex(ctx context.Context, weekday string, slotIndex int) (*TimetableSlot, error)
}
