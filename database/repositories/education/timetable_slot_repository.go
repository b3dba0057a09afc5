package education

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/education"
	"github.com/uptrace/bun"
)

// TimetableSlotRepository implements education.TimetableSlotRepository.
type TimetableSlotRepository struct {
	*base.Repository[*education.TimetableSlot]
	db *bun.DB
}

// NewTimetableSlotRepository creates a new TimetableSlotRepository.
func NewTimetableSlotRepository(db *bun.DB) education.TimetableSlotRepository {
	return &TimetableSlotRepository{
		Repository: base.NewRepository[*education.TimetableSlot](db, "education.timetable_slots", "TimetableSlot"),
		db:         db,
	}
}

// FindActiveByWeekday returns active slots for the given weekday, ordered
// by slot index.
func (r *TimetableSlotRepository) FindActiveByWeekday(ctx context.Context, weekday string) ([]*education.TimetableSlot, error) {
	var slots []*education.TimetableSlot
	err := r.db.NewSelect().
		Model(&slots).
		ModelTableExpr(`education.timetable_slots AS "slot"`).
		Where(`"slot".weekday = ? AND "slot".active = ?`, weekday, true).
		Order("slot_index ASC").
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find active slots by weekday", Err: err}
	}
	return slots, nil
}

// FindByWeekdayAndSlotIndex enforces the (weekday, slot_index) uniqueness lookup.
func (r *TimetableSlotRepository) FindByWeekdayAndSlotIndex(ctx context.Context, weekday string, slotIndex int) (*education.TimetableSlot, error) {
	slot := new(education.TimetableSlot)
	err := r.db.NewSelect().
		Model(slot).
		ModelTableExpr(`education.timetable_slots AS "slot"`).
		Where(`"slot".weekday = ? AND "slot".slot_index = ?`, weekday, slotIndex).
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find slot by weekday and index", Err: err}
	}
	return slot, nil
}

// Create overrides the base Create to enforce validation.
func (r *TimetableSlotRepository) Create(ctx context.Context, slot *education.TimetableSlot) error {
	if slot == nil {
		return fmt.Errorf("timetable slot cannot be nil")
	}
	if err := slot.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, slot)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *TimetableSlotRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*education.TimetableSlot, error) {
	var slots []*education.TimetableSlot
	query := r.db.NewSelect().Model(&slots).ModelTableExpr(`education.timetable_slots AS "slot"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list timetable slots", Err: err}
	}
	return slots, nil
}
