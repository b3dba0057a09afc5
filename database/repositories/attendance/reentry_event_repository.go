package attendance

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	"github.com/moto-nrw/project-phoenix/models/attendance"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/uptrace/bun"
)

// ReentryEventRepository implements attendance.ReentryEventRepository.
type ReentryEventRepository struct {
	*base.Repository[*attendance.ReentryEvent]
	db *bun.DB
}

// NewReentryEventRepository creates a new ReentryEventRepository.
func NewReentryEventRepository(db *bun.DB) attendance.ReentryEventRepository {
	return &ReentryEventRepository{
		Repository: base.NewRepository[*attendance.ReentryEvent](db, "attendance.reentry_events", "ReentryEvent"),
		db:         db,
	}
}

func (r *ReentryEventRepository) conn(ctx context.Context) bun.IDB {
	var db bun.IDB = r.db
	if tx, ok := modelBase.TxFromContext(ctx); ok && tx != nil {
		db = tx
	}
	return db
}

// ListBySession returns the reentry log for a session.
func (r *ReentryEventRepository) ListBySession(ctx context.Context, sessionID int64) ([]*attendance.ReentryEvent, error) {
	var events []*attendance.ReentryEvent
	err := r.conn(ctx).NewSelect().
		Model(&events).
		ModelTableExpr(`attendance.reentry_events AS "reentry_event"`).
		Where(`"reentry_event".session_id = ?`, sessionID).
		Order(`"reentry_event".created_at ASC`).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list reentry events by session", Err: err}
	}
	return events, nil
}

// ListSuspiciousByStudent returns flagged reentry events for a student,
// across sessions, for the suspicious-activity audit trail.
func (r *ReentryEventRepository) ListSuspiciousByStudent(ctx context.Context, studentID int64) ([]*attendance.ReentryEvent, error) {
	var events []*attendance.ReentryEvent
	err := r.conn(ctx).NewSelect().
		Model(&events).
		ModelTableExpr(`attendance.reentry_events AS "reentry_event"`).
		Where(`"reentry_event".student_id = ? AND "reentry_event".suspicious = ?`, studentID, true).
		Order(`"reentry_event".created_at DESC`).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list suspicious reentry events", Err: err}
	}
	return events, nil
}

// Create overrides the base Create to enforce validation and honor an
// in-flight transaction.
func (r *ReentryEventRepository) Create(ctx context.Context, e *attendance.ReentryEvent) error {
	if e == nil {
		return fmt.Errorf("reentry event cannot be nil")
	}
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).NewInsert().
		Model(e).
		ModelTableExpr(`attendance.reentry_events`).
		Exec(ctx)
	if err != nil {
		return &modelBase.DatabaseError{Op: "create reentry event", Err: err}
	}
	return nil
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *ReentryEventRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*attendance.ReentryEvent, error) {
	var events []*attendance.ReentryEvent
	query := r.db.NewSelect().Model(&events).ModelTableExpr(`attendance.reentry_events AS "reentry_event"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list reentry events", Err: err}
	}
	return events, nil
}
