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

// AttendanceRepository implements attendance.AttendanceRepository.
type AttendanceRepository struct {
	*base.Repository[*attendance.Attendance]
	db *bun.DB
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *bun.DB) attendance.AttendanceRepository {
	return &AttendanceRepository{
		Repository: base.NewRepository[*attendance.Attendance](db, "attendance.attendance", "Attendance"),
		db:         db,
	}
}

func (r *AttendanceRepository) conn(ctx context.Context) bun.IDB {
	var db bun.IDB = r.db
	if tx, ok := modelBase.TxFromContext(ctx); ok && tx != nil {
		db = tx
	}
	return db
}

// FindBySessionAndStudent enforces the (session_id, student_id) lookup
// backing the uniqueness invariant.
func (r *AttendanceRepository) FindBySessionAndStudent(ctx context.Context, sessionID, studentID int64) (*attendance.Attendance, error) {
	row := new(attendance.Attendance)
	err := r.conn(ctx).NewSelect().
		Model(row).
		ModelTableExpr(`attendance.attendance AS "attendance"`).
		Where(`"attendance".session_id = ? AND "attendance".student_id = ?`, sessionID, studentID).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find attendance by session and student", Err: err}
	}
	return row, nil
}

// ListBySession returns every attendance row for a session.
func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID int64) ([]*attendance.Attendance, error) {
	var rows []*attendance.Attendance
	err := r.conn(ctx).NewSelect().
		Model(&rows).
		ModelTableExpr(`attendance.attendance AS "attendance"`).
		Where(`"attendance".session_id = ?`, sessionID).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list attendance by session", Err: err}
	}
	return rows, nil
}

// Insert enforces the (session_id, student_id) uniqueness constraint
// fail-closed: the underlying unique index surfaces as a DatabaseError
// that callers can match against to detect a concurrent duplicate.
func (r *AttendanceRepository) Insert(ctx context.Context, a *attendance.Attendance) error {
	if a == nil {
		return fmt.Errorf("attendance row cannot be nil")
	}
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).NewInsert().
		Model(a).
		ModelTableExpr(`attendance.attendance`).
		Exec(ctx)
	if err != nil {
		return &modelBase.DatabaseError{Op: "insert attendance", Err: err}
	}
	return nil
}

// Upsert implements the Store's upsert_attendance contract: status and
// check_in_time are set only on first insert; an existing row only has
// last_seen_time (and optionally confidence) refreshed.
func (r *AttendanceRepository) Upsert(ctx context.Context, sessionID, studentID int64, status string, confidence *float64, now time.Time, method string) (*attendance.Attendance, bool, error) {
	conn := r.conn(ctx)

	existing, err := r.FindBySessionAndStudent(ctx, sessionID, studentID)
	if err == nil {
		existing.LastSeenTime = &now
		if confidence != nil {
			existing.Confidence = confidence
		}
		_, err := conn.NewUpdate().
			Model(existing).
			ModelTableExpr(`attendance.attendance`).
			Column("last_seen_time", "confidence", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, false, &modelBase.DatabaseError{Op: "upsert attendance (update)", Err: err}
		}
		return existing, true, nil
	}

	row := &attendance.Attendance{
		SessionID:   sessionID,
		StudentID:   studentID,
		Status:      status,
		CheckInTime: &now,
		Confidence:  confidence,
		Method:      method,
	}
	if insertErr := r.Insert(ctx, row); insertErr != nil {
		return nil, false, insertErr
	}
	return row, false, nil
}

// Create overrides the base Create to enforce validation.
func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	return r.Insert(ctx, a)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *AttendanceRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*attendance.Attendance, error) {
	var rows []*attendance.Attendance
	query := r.db.NewSelect().Model(&rows).ModelTableExpr(`attendance.attendance AS "attendance"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list attendance", Err: err}
	}
	return rows, nil
}
