package users

import (
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// RFIDCard represents an RFID card in the system
type RFIDCard struct {
	base.StringIDModel
	Active bool `bun:"active,notnull,default:true" json:"active"`

	// Relations
	Persons []*Person `bun:"rel:has-many,join:id=tag_id" json:"persons,omitempty"`
}

// TableName returns the table name for the RFIDCard model
func (r *RFIDCard) TableName() string {
	return "users.rfid_cards"
}

// GetID returns the RFID card ID
func (r *RFIDCard) GetID() interface{} {
	return r.ID
}

// GetCreatedAt returns the creation timestamp
func (r *RFIDCard) GetCreatedAt() time.Time {
	return r.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (r *RFIDCard) GetUpdatedAt() time.Time {
	return r.UpdatedAt
}

// Validate validates the RFID card fields
func (r *RFIDCard) Validate() error {
	if r.ID == "" {
		return errors.New("RFID card ID is required")
	}
	return nil
}

// RFIDCardRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
