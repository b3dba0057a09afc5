package users

import (
	"errors"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Teacher represents a teacher entity in the system
type Teacher struct {
	base.Model
	PersonID       int64  `bun:"person_id,notnull" json:"person_id"`
	Specialization string `bun:"specialization,notnull" json:"specialization"`
	Role           string `bun:"role" json:"role,omitempty"`
	IsPasswordOTP  bool   `bun:"is_password_otp,default:false" json:"is_password_otp"`
	Qualifications string `bun:"qualifications" json:"qualifications,omitempty"`

	// Relations
	Person *Person `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
}

// TableName returns the table name for the Teacher model
func (t *Teacher) TableName() string {
	return "users.teachers"
}

// GetID returns the teacher ID
func (t *Teacher) GetID() interface{} {
	return t.ID
}

// GetCreatedAt returns the creation timestamp
func (t *Teacher) GetCreatedAt() time.Time {
	return t.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (t *Teacher) GetUpdatedAt() time.Time {
	return t.UpdatedAt
}

// Validate validates the teacher fields
func (t *Teacher) Validate() error {
	if t.PersonID <= 0 {
		return errors.New("person ID is required")
	}

	if strings.TrimSpace(t.Specialization) == "" {
		return errors.New("specialization is required")
	}

	return nil
}

// BeforeAppend sets default values before saving to the database
func (t *Teacher) BeforeAppend() error {
	// Call parent's BeforeAppend to set timestamps
	if err := t.Model.BeforeAppend(); err != nil {
		return err
	}

	// Trim whitespace
	t.Specialization = strings.TrimSpace(t.Specialization)
	t.Role = strings.TrimSpace(t.Role)
	t.Qualifications = strings.TrimSpace(t.Qualifications)

	return nil
}

// TeacherRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
