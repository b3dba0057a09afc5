package users

import (
	"errors"
	"strings"
	"time"

	"github.com/moto-nrw/project-phoenix/models/auth"
	"github.com/moto-nrw/project-phoenix/models/base"
)

// Person represents a person entity in the system
type Person struct {
	base.Model
	FirstName string `bun:"first_name,notnull" json:"first_name"`
	LastName  string `bun:"last_name,notnull" json:"last_name"`
	TagID     string `bun:"tag_id" json:"tag_id,omitempty"`
	AccountID int64  `bun:"account_id" json:"account_id,omitempty"`

	// Relations
	RFIDCard *RFIDCard     `bun:"rel:belongs-to,join:tag_id=id" json:"rfid_card,omitempty"`
	Account  *auth.Account `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	Teacher  *Teacher      `bun:"rel:has-one,join:id=person_id" json:"teacher,omitempty"`
	Guest    *Guest        `bun:"rel:has-one,join:id=person_id" json:"guest,omitempty"`
}

// TableName returns the table name for the Person model
func (p *Person) TableName() string {
	return "users.persons"
}

// GetID returns the person ID
func (p *Person) GetID() interface{} {
	return p.ID
}

// GetCreatedAt returns the creation timestamp
func (p *Person) GetCreatedAt() time.Time {
	return p.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (p *Person) GetUpdatedAt() time.Time {
	return p.UpdatedAt
}

// FullName returns the full name of the person
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Validate validates the person fields
func (p *Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return errors.New("first name is required")
	}

	if strings.TrimSpace(p.LastName) == "" {
		return errors.New("last name is required")
	}

	// At least one identifier should be present in most cases,
	// but we're not enforcing it at the model level as per the migration comment
	return nil
}

// BeforeAppend sets default values before saving to the database
func (p *Person) BeforeAppend() error {
	// Call parent's BeforeAppend to set timestamps
	if err := p.Model.BeforeAppend(); err != nil {
		return err
	}

	// Trim whitespace from names
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)

	return nil
}

// PersonRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
