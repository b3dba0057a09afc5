package users

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	authModels "github.com/moto-nrw/project-phoenix/models/auth"
	"github.com/moto-nrw/project-phoenix/models/base"
	userModels "github.com/moto-nrw/project-phoenix/models/users"
)

const (
	opGetPerson      = "get person"
	opCreatePerson   = "create person"
	opUpdatePerson   = "update person"
	opDeletePerson   = "delete person"
	opLinkToAccount  = "link to account"
	opLinkToRFIDCard = "link to RFID card"
)

// PersonServiceDependencies contains all dependencies required by the person service.
type PersonServiceDependencies struct {
	PersonRepo         userModels.PersonRepository
	RFIDRepo           userModels.RFIDCardRepository
	AccountRepo        authModels.AccountRepository
	PersonGuardianRepo userModels.PersonGuardianRepository
	StudentRepo        userModels.StudentRepository
	StaffRepo          userModels.StaffRepository
	TeacherRepo        userModels.TeacherRepository

	DB *bun.DB
}

// personService implements PersonService.
type personService struct {
	personRepo         userModels.PersonRepository
	rfidRepo           userModels.RFIDCardRepository
	accountRepo        authModels.AccountRepository
	personGuardianRepo userModels.PersonGuardianRepository
	studentRepo        userModels.StudentRepository
	staffRepo          userModels.StaffRepository
	teacherRepo        userModels.TeacherRepository
	db                 *bun.DB
	txHandler          *base.TxHandler
}

// NewPersonService creates a new person service.
func NewPersonService(deps PersonServiceDependencies) PersonService {
	return &personService{
		personRepo:         deps.PersonRepo,
		rfidRepo:           deps.RFIDRepo,
		accountRepo:        deps.AccountRepo,
		personGuardianRepo: deps.PersonGuardianRepo,
		studentRepo:        deps.StudentRepo,
		staffRepo:          deps.StaffRepo,
		teacherRepo:        deps.TeacherRepo,
		db:                 deps.DB,
		txHandler:          base.NewTxHandler(deps.DB),
	}
}

// WithTx returns a new service bound to the given transaction. Repositories
// that support transactions are rebound; the rest are reused as-is.
func (s *personService) WithTx(tx bun.Tx) any {
	personRepo := s.personRepo
	rfidRepo := s.rfidRepo
	accountRepo := s.accountRepo
	personGuardianRepo := s.personGuardianRepo
	studentRepo := s.studentRepo
	staffRepo := s.staffRepo
	teacherRepo := s.teacherRepo

	if txRepo, ok := s.personRepo.(base.TransactionalRepository); ok {
		personRepo = txRepo.WithTx(tx).(userModels.PersonRepository)
	}
	if txRepo, ok := s.rfidRepo.(base.TransactionalRepository); ok {
		rfidRepo = txRepo.WithTx(tx).(userModels.RFIDCardRepository)
	}
	if txRepo, ok := s.accountRepo.(base.TransactionalRepository); ok {
		accountRepo = txRepo.WithTx(tx).(authModels.AccountRepository)
	}
	if txRepo, ok := s.personGuardianRepo.(base.TransactionalRepository); ok {
		personGuardianRepo = txRepo.WithTx(tx).(userModels.PersonGuardianRepository)
	}
	if txRepo, ok := s.studentRepo.(base.TransactionalRepository); ok {
		studentRepo = txRepo.WithTx(tx).(userModels.StudentRepository)
	}
	if txRepo, ok := s.staffRepo.(base.TransactionalRepository); ok {
		staffRepo = txRepo.WithTx(tx).(userModels.StaffRepository)
	}
	if txRepo, ok := s.teacherRepo.(base.TransactionalRepository); ok {
		teacherRepo = txRepo.WithTx(tx).(userModels.TeacherRepository)
	}

	return &personService{
		personRepo:         personRepo,
		rfidRepo:           rfidRepo,
		accountRepo:        accountRepo,
		personGuardianRepo: personGuardianRepo,
		studentRepo:        studentRepo,
		staffRepo:          staffRepo,
		teacherRepo:        teacherRepo,
		db:                 s.db,
		txHandler:          s.txHandler.WithTx(tx),
	}
}

// Get retrieves a person by their ID, eagerly loading the linked account
// when the repository supports it.
func (s *personService) Get(ctx context.Context, id interface{}) (*userModels.Person, error) {
	if repo, ok := s.personRepo.(interface {
		FindWithAccount(context.Context, int64) (*userModels.Person, error)
	}); ok {
		var personID int64
		switch v := id.(type) {
		case int:
			personID = int64(v)
		case int64:
			personID = v
		default:
			return nil, &UsersError{Op: opGetPerson, Err: fmt.Errorf("invalid ID type")}
		}

		person, err := repo.FindWithAccount(ctx, personID)
		if err != nil {
			return nil, &UsersError{Op: opGetPerson, Err: err}
		}
		if person == nil {
			return nil, &UsersError{Op: opGetPerson, Err: ErrPersonNotFound}
		}
		return person, nil
	}

	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &UsersError{Op: opGetPerson, Err: err}
	}
	if person == nil {
		return nil, &UsersError{Op: opGetPerson, Err: ErrPersonNotFound}
	}
	return person, nil
}

// GetByIDs retrieves multiple persons by their IDs in a single query.
func (s *personService) GetByIDs(ctx context.Context, ids []int64) (map[int64]*userModels.Person, error) {
	if len(ids) == 0 {
		return make(map[int64]*userModels.Person), nil
	}

	persons, err := s.personRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, &UsersError{Op: "get persons by IDs", Err: err}
	}
	return persons, nil
}

// Create creates a new person, verifying that a referenced account or RFID
// card actually exists before persisting.
func (s *personService) Create(ctx context.Context, person *userModels.Person) error {
	if err := person.Validate(); err != nil {
		return &UsersError{Op: opCreatePerson, Err: err}
	}

	if person.AccountID != 0 {
		account, err := s.accountRepo.FindByID(ctx, person.AccountID)
		if err != nil {
			return &UsersError{Op: opCreatePerson, Err: err}
		}
		if account == nil {
			return &UsersError{Op: opCreatePerson, Err: ErrAccountNotFound}
		}
	}

	if person.TagID != "" {
		card, err := s.rfidRepo.FindByID(ctx, person.TagID)
		if err != nil {
			return &UsersError{Op: opCreatePerson, Err: err}
		}
		if card == nil {
			return &UsersError{Op: opCreatePerson, Err: ErrRFIDCardNotFound}
		}
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return &UsersError{Op: opCreatePerson, Err: err}
	}
	return nil
}

// Update updates an existing person, re-validating a changed account or RFID
// link the same way Create does.
func (s *personService) Update(ctx context.Context, person *userModels.Person) error {
	if err := person.Validate(); err != nil {
		return &UsersError{Op: opUpdatePerson, Err: err}
	}

	existingPerson, err := s.personRepo.FindByID(ctx, person.ID)
	if err != nil {
		return &UsersError{Op: opUpdatePerson, Err: err}
	}
	if existingPerson == nil {
		return &UsersError{Op: opUpdatePerson, Err: ErrPersonNotFound}
	}

	if err := s.validateAccountIfChanged(ctx, person, existingPerson); err != nil {
		return err
	}
	if err := s.validateRFIDCardIfChanged(ctx, person, existingPerson); err != nil {
		return err
	}

	if err := s.personRepo.Update(ctx, person); err != nil {
		return &UsersError{Op: opUpdatePerson, Err: err}
	}
	return nil
}

func (s *personService) validateAccountIfChanged(ctx context.Context, person, existingPerson *userModels.Person) error {
	if person.AccountID == 0 {
		return nil
	}
	if existingPerson.AccountID == person.AccountID {
		return nil
	}

	account, err := s.accountRepo.FindByID(ctx, person.AccountID)
	if err != nil {
		return &UsersError{Op: opUpdatePerson, Err: err}
	}
	if account == nil {
		return &UsersError{Op: opUpdatePerson, Err: ErrAccountNotFound}
	}
	return nil
}

func (s *personService) validateRFIDCardIfChanged(ctx context.Context, person, existingPerson *userModels.Person) error {
	if person.TagID == "" {
		return nil
	}
	if existingPerson.TagID == person.TagID {
		return nil
	}

	card, err := s.rfidRepo.FindByID(ctx, person.TagID)
	if err != nil {
		return &UsersError{Op: opUpdatePerson, Err: err}
	}
	if card == nil {
		return &UsersError{Op: opUpdatePerson, Err: ErrRFIDCardNotFound}
	}
	return nil
}

// Delete removes a person.
func (s *personService) Delete(ctx context.Context, id interface{}) error {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return &UsersError{Op: opDeletePerson, Err: err}
	}
	if person == nil {
		return &UsersError{Op: opDeletePerson, Err: ErrPersonNotFound}
	}

	if err := s.personRepo.Delete(ctx, id); err != nil {
		return &UsersError{Op: opDeletePerson, Err: err}
	}
	return nil
}

// List retrieves persons matching the provided query options. A nil options
// value lists everyone.
func (s *personService) List(ctx context.Context, options *base.QueryOptions) ([]*userModels.Person, error) {
	if options == nil {
		persons, err := s.personRepo.List(ctx, nil)
		if err != nil {
			return nil, &UsersError{Op: "list persons", Err: err}
		}
		return persons, nil
	}

	persons, err := s.personRepo.ListWithOptions(ctx, options)
	if err != nil {
		return nil, &UsersError{Op: "list persons", Err: err}
	}
	return persons, nil
}

// FindByTagID finds a person by their RFID tag ID.
func (s *personService) FindByTagID(ctx context.Context, tagID string) (*userModels.Person, error) {
	person, err := s.personRepo.FindByTagID(ctx, tagID)
	if err != nil {
		return nil, &UsersError{Op: "find person by tag ID", Err: err}
	}
	if person == nil {
		return nil, &UsersError{Op: "find person by tag ID", Err: ErrPersonNotFound}
	}
	return person, nil
}

// FindByAccountID finds a person by their account ID.
func (s *personService) FindByAccountID(ctx context.Context, accountID int64) (*userModels.Person, error) {
	person, err := s.personRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, &UsersError{Op: "find person by account ID", Err: err}
	}
	if person == nil {
		return nil, &UsersError{Op: "find person by account ID", Err: ErrPersonNotFound}
	}
	return person, nil
}

// FindByName finds persons whose first and/or last name starts with the
// given values.
func (s *personService) FindByName(ctx context.Context, firstName, lastName string) ([]*userModels.Person, error) {
	options := base.NewQueryOptions()
	filter := base.NewFilter()

	if firstName != "" {
		filter.ILike("first_name", firstName+"%")
	}
	if lastName != "" {
		filter.ILike("last_name", lastName+"%")
	}
	options.Filter = filter

	persons, err := s.List(ctx, options)
	if err != nil {
		return nil, &UsersError{Op: "find persons by name", Err: err}
	}
	return persons, nil
}

// LinkToAccount associates a person with an account.
func (s *personService) LinkToAccount(ctx context.Context, personID int64, accountID int64) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return &UsersError{Op: opLinkToAccount, Err: err}
	}
	if account == nil {
		return &UsersError{Op: opLinkToAccount, Err: ErrAccountNotFound}
	}

	existingPerson, err := s.personRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return &UsersError{Op: opLinkToAccount, Err: err}
	}
	if existingPerson != nil && existingPerson.ID != personID {
		return &UsersError{Op: opLinkToAccount, Err: ErrAccountAlreadyLinked}
	}

	if err := s.personRepo.LinkToAccount(ctx, personID, accountID); err != nil {
		return &UsersError{Op: opLinkToAccount, Err: err}
	}
	return nil
}

// UnlinkFromAccount removes account association from a person.
func (s *personService) UnlinkFromAccount(ctx context.Context, personID int64) error {
	if err := s.personRepo.UnlinkFromAccount(ctx, personID); err != nil {
		return &UsersError{Op: "unlink from account", Err: err}
	}
	return nil
}

// LinkToRFIDCard associates a person with an RFID card, auto-creating the
// card if it has never been seen and transferring it away from whoever
// currently holds it.
func (s *personService) LinkToRFIDCard(ctx context.Context, personID int64, tagID string) error {
	card, err := s.rfidRepo.FindByID(ctx, tagID)
	if err != nil {
		return &UsersError{Op: opLinkToRFIDCard, Err: err}
	}
	if card == nil {
		newCard := &userModels.RFIDCard{
			StringIDModel: base.StringIDModel{ID: tagID},
			Active:        true,
		}
		if err := s.rfidRepo.Create(ctx, newCard); err != nil {
			return &UsersError{Op: opLinkToRFIDCard, Err: err}
		}
	}

	existingPerson, err := s.personRepo.FindByTagID(ctx, tagID)
	if err != nil {
		return &UsersError{Op: opLinkToRFIDCard, Err: err}
	}
	if existingPerson != nil && existingPerson.ID != personID {
		if err := s.personRepo.UnlinkFromRFIDCard(ctx, existingPerson.ID); err != nil {
			return &UsersError{Op: opLinkToRFIDCard, Err: err}
		}
	}

	if err := s.personRepo.LinkToRFIDCard(ctx, personID, tagID); err != nil {
		return &UsersError{Op: opLinkToRFIDCard, Err: err}
	}
	return nil
}

// UnlinkFromRFIDCard removes RFID card association from a person.
func (s *personService) UnlinkFromRFIDCard(ctx context.Context, personID int64) error {
	if err := s.personRepo.UnlinkFromRFIDCard(ctx, personID); err != nil {
		return &UsersError{Op: "unlink from RFID card", Err: err}
	}
	return nil
}

// GetFullProfile retrieves a person with its account and RFID card relations
// populated from a single consistent snapshot.
func (s *personService) GetFullProfile(ctx context.Context, personID int64) (*userModels.Person, error) {
	var result *userModels.Person

	err := s.txHandler.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		txService := s.WithTx(tx).(PersonService)

		person, err := txService.Get(ctx, personID)
		if err != nil {
			return err
		}

		if person.AccountID != 0 {
			account, err := s.accountRepo.FindByID(ctx, person.AccountID)
			if err != nil {
				return &UsersError{Op: "get full profile - fetch account", Err: err}
			}
			person.Account = account
		}

		if person.TagID != "" {
			card, err := s.rfidRepo.FindByID(ctx, person.TagID)
			if err != nil {
				return &UsersError{Op: "get full profile - fetch RFID card", Err: err}
			}
			person.RFIDCard = card
		}

		result = person
		return nil
	})
	if err != nil {
		return nil, &UsersError{Op: "get full profile", Err: err}
	}
	return result, nil
}

// ListAvailableRFIDCards returns active RFID cards that are not currently
// assigned to any person.
func (s *personService) ListAvailableRFIDCards(ctx context.Context) ([]*userModels.RFIDCard, error) {
	filters := map[string]interface{}{
		"active": true,
	}

	allCards, err := s.rfidRepo.List(ctx, filters)
	if err != nil {
		return nil, &UsersError{Op: "list all RFID cards", Err: err}
	}

	persons, err := s.personRepo.List(ctx, nil)
	if err != nil {
		return nil, &UsersError{Op: "list all persons", Err: err}
	}

	assignedTags := make(map[string]bool, len(persons))
	for _, person := range persons {
		if person.TagID != "" {
			assignedTags[person.TagID] = true
		}
	}

	var availableCards []*userModels.RFIDCard
	for _, card := range allCards {
		if !assignedTags[card.ID] {
			availableCards = append(availableCards, card)
		}
	}
	return availableCards, nil
}
