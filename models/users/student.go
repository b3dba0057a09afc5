package users

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/education"
)

// Student represents a student entity in the system
type Student struct {
	base.Model
	PersonID        int64  `bun:"person_id,notnull,unique" json:"person_id"`
	SchoolClass     string `bun:"school_class,notnull" json:"school_class"`
	Bus             bool   `bun:"bus,notnull,default:false" json:"bus"`
	InHouse         bool   `bun:"in_house,notnull,default:false" json:"in_house"`
	WC              bool   `bun:"wc,notnull,default:false" json:"wc"`
	SchoolYard      bool   `bun:"school_yard,notnull,default:false" json:"school_yard"`
	GuardianName    string `bun:"guardian_name,notnull" json:"guardian_name"`
	GuardianContact string `bun:"guardian_contact,notnull" json:"guardian_contact"`
	GuardianEmail   string `bun:"guardian_email" json:"guardian_email,omitempty"`
	GuardianPhone   string `bun:"guardian_phone" json:"guardian_phone,omitempty"`
	GroupID         *int64 `bun:"group_id" json:"group_id,omitempty"`

	// Attendance-engine fields: a stable external identifier used by the
	// recognition/enrollment pipeline, reusable once a student is
	// soft-deleted. Kept alongside the OGS-specific fields above rather
	// than replacing them.
	ExternalID string     `bun:"external_id,unique" json:"external_id,omitempty"`
	Department string     `bun:"department" json:"department,omitempty"`
	Status     string     `bun:"status,notnull,default:'ACTIVE'" json:"status"`
	DeletedAt  *time.Time `bun:"deleted_at,soft_delete" json:"deleted_at,omitempty"`

	// Relations
	Person *Person          `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
	Group  *education.Group `bun:"rel:belongs-to,join:group_id=id" json:"group,omitempty"`
}

// TableName returns the table name for the Student model
func (s *Student) TableName() string {
	return "users.students"
}

// GetID returns the student ID
func (s *Student) GetID() interface{} {
	return s.ID
}

// GetCreatedAt returns the creation timestamp
func (s *Student) GetCreatedAt() time.Time {
	return s.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (s *Student) GetUpdatedAt() time.Time {
	return s.UpdatedAt
}

// externalIDPattern constrains the format of Student.ExternalID. Overridable
// via SetExternalIDPattern so deployments can match their own ID scheme
// (student card numbers, SIS identifiers, etc.).
var externalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// SetExternalIDPattern reconfigures the accepted external_id format.
func SetExternalIDPattern(re *regexp.Regexp) {
	if re != nil {
		externalIDPattern = re
	}
}

// Validate validates the student fields
func (s *Student) Validate() error {
	if s.PersonID <= 0 {
		return errors.New("person ID is required")
	}

	if s.ExternalID != "" && !externalIDPattern.MatchString(s.ExternalID) {
		return errors.New("external ID does not match the configured format")
	}

	if strings.TrimSpace(s.SchoolClass) == "" {
		return errors.New("school class is required")
	}

	if strings.TrimSpace(s.GuardianName) == "" {
		return errors.New("guardian name is required")
	}

	if strings.TrimSpace(s.GuardianContact) == "" {
		return errors.New("guardian contact is required")
	}

	// Validate guardian email if provided
	if s.GuardianEmail != "" {
		emailRegex := regexp.MustCompile(`^[A-Za-z0-9._%-]+@[A-Za-z0-9.-]+[.][A-Za-z]+$`)
		if !emailRegex.MatchString(s.GuardianEmail) {
			return errors.New("invalid guardian email format")
		}
	}

	// Validate guardian phone if provided
	if s.GuardianPhone != "" {
		phoneRegex := regexp.MustCompile(`^(\+[0-9]{1,3}\s?)?[0-9\s-]{7,15}$`)
		if !phoneRegex.MatchString(s.GuardianPhone) {
			return errors.New("invalid guardian phone format")
		}
	}

	// Validate location constraint
	locationCount := 0
	if s.Bus {
		locationCount++
	}
	if s.InHouse {
		locationCount++
	}
	if s.WC {
		locationCount++
	}
	if s.SchoolYard {
		locationCount++
	}

	if locationCount > 1 {
		return errors.New("student can only be in one location at a time")
	}

	return nil
}

// BeforeAppend sets default values before saving to the database
func (s *Student) BeforeAppend() error {
	// Call parent's BeforeAppend to set timestamps
	if err := s.Model.BeforeAppend(); err != nil {
		return err
	}

	// Trim whitespace
	s.SchoolClass = strings.TrimSpace(s.SchoolClass)
	s.GuardianName = strings.TrimSpace(s.GuardianName)
	s.GuardianContact = strings.TrimSpace(s.GuardianContact)
	s.GuardianEmail = strings.TrimSpace(s.GuardianEmail)
	s.GuardianPhone = strings.TrimSpace(s.GuardianPhone)

	return nil
}

// IsInBus returns whether the student is currently in the bus
func (s *Student) IsInBus() bool {
	return s.Bus
}

// IsInHouse returns whether the student is currently in the house
func (s *Student) IsInHouse() bool {
	return s.InHouse
}

// IsInWC returns whether the student is currently in the WC
func (s *Student) IsInWC() bool {
	return s.WC
}

// IsInSchoolYard returns whether the student is currently in the school yard
func (s *Student) IsInSchoolYard() bool {
	return s.SchoolYard
}

// SetLocation sets the student's location
// Only one location can be active at a time
func (s *Student) SetLocation(location string) error {
	// Reset all locations first
	s.Bus = false
	s.InHouse = false
	s.WC = false
	s.SchoolYard = false

	// Set the specified location
	switch strings.ToLower(location) {
	case "bus":
		s.Bus = true
	case "house", "in_house":
		s.InHouse = true
	case "wc", "bathroom":
		s.WC = true
	case "yard", "school_yard":
		s.SchoolYard = true
	case "":
		// No location specified (all remain false)
	default:
		return errors.New("invalid location: must be bus, house, wc, or yard")
	}

	return nil
}

// GetCurrentLocation returns the student's current location as a string
func (s *Student) GetCurrentLocation() string {
	if s.Bus {
		return "bus"
	}
	if s.InHouse {
		return "house"
	}
	if s.WC {
		return "wc"
	}
	if s.SchoolYard {
		return "yard"
	}
	return "unknown"
}

// StudentWithGroupInfo pairs a Student (with Person populated) with the name
// of the group a supervising teacher knows it by.
type StudentWithGroupInfo struct {
	Student   *Student
	GroupName string
}

// StudentRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
