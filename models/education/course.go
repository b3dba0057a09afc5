package education

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Course represents a subject taught on the timetable, the unit that
// students enroll in and that sessions are scheduled against.
type Course struct {
	base.Model     `bun:"schema:education,table:courses"`
	Code       string `bun:"code,notnull,unique" json:"code"`
	Name       string `bun:"name,notnull" json:"name"`
	Instructor string `bun:"instructor" json:"instructor,omitempty"`
	Active     bool   `bun:"active,notnull,default:true" json:"active"`
}

// TableName returns the table name for the Course model
func (c *Course) TableName() string {
	return "education.courses"
}

// GetID returns the course ID
func (c *Course) GetID() interface{} {
	return c.ID
}

// GetCreatedAt returns the creation timestamp
func (c *Course) GetCreatedAt() time.Time {
	return c.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (c *Course) GetUpdatedAt() time.Time {
	return c.UpdatedAt
}

// Validate validates the course fields
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return errors.New("course code is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("course name is required")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database
func (c *Course) BeforeAppend() error {
	if err := c.Model.BeforeAppend(); err != nil {
		return err
	}
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// CourseRepository defines operations for working with courses. The
// concrete bun-backed implementation lives in database/repositories/education.
type CourseRepository interface {
	base.Repository[*Course]
	FindByCode(ctx context.Context, code string) (*Course, error)
	FindActive(ctx context.Context) ([]*Course, error)
}
