package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	"github.com/moto-nrw/project-phoenix/models/attendance"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/uptrace/bun"
)

// SessionRepository implements attendance.SessionRepository.
type SessionRepository struct {
	*base.Repository[*attendance.Session]
	db *bun.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *bun.DB) attendance.SessionRepository {
	return &SessionRepository{
		Repository: base.NewRepository[*attendance.Session](db, "attendance.sessions", "Session"),
		db:         db,
	}
}

func (r *SessionRepository) conn(ctx context.Context) bun.IDB {
	if tx, ok := modelBase.TxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// FindOrCreate implements the Store's idempotent find_or_create_session.
// A partial unique index on (timetable_slot_id, date(starts_at)) WHERE
// status <> 'CANCELLED' backs the ON CONFLICT no-op, making this safe
// under concurrent scheduler ticks.
func (r *SessionRepository) FindOrCreate(ctx context.Context, timetableSlotID int64, date time.Time, startsAt, endsAt time.Time, lateThresholdMinutes int, status string) (*attendance.Session, bool, error) {
	conn := r.conn(ctx)

	existing := new(attendance.Session)
	err := conn.NewSelect().
		Model(existing).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`"session".timetable_slot_id = ?`, timetableSlotID).
		Where(`date_trunc('day', "session".starts_at) = date_trunc('day', ?::timestamp)`, date).
		Where(`"session".status <> ?`, attendance.SessionCancelled).
		Scan(ctx)
	if err == nil {
		return existing, false, nil
	}

	courseID, err := r.courseIDForSlot(ctx, timetableSlotID)
	if err != nil {
		return nil, false, err
	}

	session := &attendance.Session{
		CourseID:             courseID,
		TimetableSlotID:      &timetableSlotID,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		LateThresholdMinutes: lateThresholdMinutes,
		Status:               status,
		AutoCreated:          true,
	}
	if err := session.Validate(); err != nil {
		return nil, false, err
	}

	_, err = conn.NewInsert().
		Model(session).
		ModelTableExpr(`attendance.sessions`).
		Exec(ctx)
	if err != nil {
		return nil, false, &modelBase.DatabaseError{Op: "find_or_create_session", Err: err}
	}
	return session, true, nil
}

func (r *SessionRepository) courseIDForSlot(ctx context.Context, timetableSlotID int64) (int64, error) {
	var courseID int64
	err := r.conn(ctx).NewSelect().
		Table("education.timetable_slots").
		Column("course_id").
		Where("id = ?", timetableSlotID).
		Scan(ctx, &courseID)
	if err != nil {
		return 0, &modelBase.DatabaseError{Op: "resolve course for slot", Err: err}
	}
	return courseID, nil
}

// FindByID retrieves a session by ID, honoring an in-flight transaction.
func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*attendance.Session, error) {
	session := new(attendance.Session)
	err := r.conn(ctx).NewSelect().
		Model(session).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`"session".id = ?`, id).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find session by ID", Err: err}
	}
	return session, nil
}

// ListActive returns sessions currently ACTIVE.
func (r *SessionRepository) ListActive(ctx context.Context, now time.Time) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	err := r.conn(ctx).NewSelect().
		Model(&sessions).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`"session".status = ?`, attendance.SessionActive).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list active sessions", Err: err}
	}
	return sessions, nil
}

// ListDueToActivate returns SCHEDULED sessions whose start has arrived.
func (r *SessionRepository) ListDueToActivate(ctx context.Context, now time.Time) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	err := r.conn(ctx).NewSelect().
		Model(&sessions).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`"session".status = ?`, attendance.SessionScheduled).
		Where(`"session".starts_at <= ?`, now).
		Where(`"session".ends_at > ?`, now).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list sessions due to activate", Err: err}
	}
	return sessions, nil
}

// ListDueToClose returns ACTIVE sessions whose end has passed.
func (r *SessionRepository) ListDueToClose(ctx context.Context, now time.Time) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	err := r.conn(ctx).NewSelect().
		Model(&sessions).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`"session".status = ?`, attendance.SessionActive).
		Where(`"session".ends_at <= ?`, now).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list sessions due to close", Err: err}
	}
	return sessions, nil
}

// ListByDateAndStatus supports the GET /sessions?date=&status= listing.
func (r *SessionRepository) ListByDateAndStatus(ctx context.Context, date time.Time, status string) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	query := r.conn(ctx).NewSelect().
		Model(&sessions).
		ModelTableExpr(`attendance.sessions AS "session"`).
		Where(`date_trunc('day', "session".starts_at) = date_trunc('day', ?::timestamp)`, date)

	if status != "" {
		query = query.Where(`"session".status = ?`, status)
	}

	if err := query.Order(`"session".starts_at ASC`).Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list sessions by date and status", Err: err}
	}
	return sessions, nil
}

// UpdateStatus performs a compare-and-swap transition, failing if the row
// is no longer in fromStatus. A zero rows-affected result is surfaced as
// an error so callers (handlers re-reading inside their own transaction)
// can detect a stale status rather than silently doing nothing.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	res, err := r.conn(ctx).NewUpdate().
		Model((*attendance.Session)(nil)).
		ModelTableExpr(`attendance.sessions`).
		Set("status = ?", toStatus).
		Where("id = ? AND status = ?", id, fromStatus).
		Exec(ctx)
	if err != nil {
		return &modelBase.DatabaseError{Op: "update session status", Err: err}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return &modelBase.DatabaseError{Op: "update session status", Err: err}
	}
	if rows == 0 {
		return fmt.Errorf("session %d is not in status %s", id, fromStatus)
	}
	return nil
}

// Create overrides the base Create to enforce validation.
func (r *SessionRepository) Create(ctx context.Context, session *attendance.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, session)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *SessionRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	query := r.db.NewSelect().Model(&sessions).ModelTableExpr(`attendance.sessions AS "session"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}
