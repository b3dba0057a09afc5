package users

import (
	"errors"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Guest represents a guest instructor entity in the system
type Guest struct {
	base.Model
	PersonID          int64     `bun:"person_id,notnull" json:"person_id"`
	Organization      string    `bun:"organization" json:"organization,omitempty"`
	ContactEmail      string    `bun:"contact_email" json:"contact_email,omitempty"`
	ContactPhone      string    `bun:"contact_phone" json:"contact_phone,omitempty"`
	ActivityExpertise string    `bun:"activity_expertise,notnull" json:"activity_expertise"`
	StartDate         time.Time `bun:"start_date" json:"start_date,omitempty"`
	EndDate           time.Time `bun:"end_date" json:"end_date,omitempty"`
	Notes             string    `bun:"notes" json:"notes,omitempty"`

	// Relations
	Person *Person `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
}

// TableName returns the table name for the Guest model
func (g *Guest) TableName() string {
	return "users.guests"
}

// GetID returns the guest ID
func (g *Guest) GetID() interface{} {
	return g.ID
}

// GetCreatedAt returns the creation timestamp
func (g *Guest) GetCreatedAt() time.Time {
	return g.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (g *Guest) GetUpdatedAt() time.Time {
	return g.UpdatedAt
}

// Validate validates the guest fields
func (g *Guest) Validate() error {
	if g.PersonID <= 0 {
		return errors.New("person ID is required")
	}

	if strings.TrimSpace(g.ActivityExpertise) == "" {
		return errors.New("activity expertise is required")
	}

	return nil
}

// BeforeAppend sets default values before saving to the database
func (g *Guest) BeforeAppend() error {
	// Call parent's BeforeAppend to set timestamps
	if err := g.Model.BeforeAppend(); err != nil {
		return err
	}

	// Trim whitespace
	g.Organization = strings.TrimSpace(g.Organization)
	g.ContactEmail = strings.TrimSpace(g.ContactEmail)
	g.ContactPhone = strings.TrimSpace(g.ContactPhone)
	g.ActivityExpertise = strings.TrimSpace(g.ActivityExpertise)
	g.Notes = strings.TrimSpace(g.Notes)

	return nil
}

// GuestRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
