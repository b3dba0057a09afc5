package users

import (
	"errors"
	"time"

	"github.com/moto-nrw/project-phoenix/models/auth"
	"github.com/moto-nrw/project-phoenix/models/base"
)

// Profile represents a user profile in the system
type Profile struct {
	base.Model
	AccountID int64                  `bun:"account_id,notnull" json:"account_id"`
	Avatar    string                 `bun:"avatar" json:"avatar,omitempty"`
	Bio       string                 `bun:"bio" json:"bio,omitempty"`
	Settings  map[string]interface{} `bun:"settings,type:jsonb,default:'{}'" json:"settings,omitempty"` // Use map for JSON data
	Account   *auth.Account          `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
}

// TableName returns the table name for the Profile model
func (p *Profile) TableName() string {
	return "users.profiles"
}

// GetID returns the profile ID
func (p *Profile) GetID() interface{} {
	return p.ID
}

// GetCreatedAt returns the creation timestamp
func (p *Profile) GetCreatedAt() time.Time {
	return p.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (p *Profile) GetUpdatedAt() time.Time {
	return p.UpdatedAt
}

// Validate validates the profile fields
func (p *Profile) Validate() error {
	if p.AccountID <= 0 {
		return errors.New("account ID is required")
	}
	return nil
}

// ProfileRepository is defined in repository.go, backed by the
// database/repositories/users implementation.
