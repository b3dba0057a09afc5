package users

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/moto-nrw/project-phoenix/models/base"
	userModels "github.com/moto-nrw/project-phoenix/models/users"
)

// PersonService defines the behaviour the attendance engine needs on top of
// the person directory: identity lookups, RFID/account linking, and the
// profile view consumed by enrollment and attendance recording.
type PersonService interface {
	// WithTx returns a new service bound to the given transaction.
	WithTx(tx bun.Tx) any

	Get(ctx context.Context, id interface{}) (*userModels.Person, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*userModels.Person, error)
	Create(ctx context.Context, person *userModels.Person) error
	Update(ctx context.Context, person *userModels.Person) error
	Delete(ctx context.Context, id interface{}) error
	List(ctx context.Context, options *base.QueryOptions) ([]*userModels.Person, error)

	FindByTagID(ctx context.Context, tagID string) (*userModels.Person, error)
	FindByAccountID(ctx context.Context, accountID int64) (*userModels.Person, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]*userModels.Person, error)

	LinkToAccount(ctx context.Context, personID int64, accountID int64) error
	UnlinkFromAccount(ctx context.Context, personID int64) error
	LinkToRFIDCard(ctx context.Context, personID int64, tagID string) error
	UnlinkFromRFIDCard(ctx context.Context, personID int64) error

	GetFullProfile(ctx context.Context, personID int64) (*userModels.Person, error)
	ListAvailableRFIDCards(ctx context.Context) ([]*userModels.RFIDCard, error)
}
