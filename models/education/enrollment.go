package education

import (
	"context"
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Enrollment associates a student with a course they are registered for.
// Uniqueness over (student_id, course_id) is enforced at the store layer.
type Enrollment struct {
	base.Model `bun:"schema:education,table:enrollments"`
	StudentID  int64 `bun:"student_id,notnull" json:"student_id"`
	CourseID   int64 `bun:"course_id,notnull" json:"course_id"`

	Course *Course `bun:"rel:belongs-to,join:course_id=id" json:"course,omitempty"`
}

// TableName returns the table name for the Enrollment model
func (e *Enrollment) TableName() string {
	return "education.enrollments"
}

// GetID returns the enrollment ID
func (e *Enrollment) GetID() interface{} {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *Enrollment) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *Enrollment) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Validate validates the enrollment fields
func (e *Enrollment) Validate() error {
	if e.StudentID <= 0 {
		return errors.New("student ID is required")
	}
	if e.CourseID <= 0 {
		return errors.New("course ID is required")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database
func (e *Enrollment) BeforeAppend() error {
	return e.Model.BeforeAppend()
}

// EnrollmentRepository defines operations for working with enrollments.
type EnrollmentRepository interface {
	base.Repository[*Enrollment]
	FindByStudentID(ctx context.Context, studentID int64) ([]*Enrollment, error)
	FindByCourseID(ctx context.Context, courseID int64) ([]*Enrollment, error)
	ExistsForStudentAndCourse(ctx context.Context, studentID, courseID int64) (bool, error)
}
