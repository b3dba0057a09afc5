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

// FinalizationJobRepository implements attendance.FinalizationJobRepository.
type FinalizationJobRepository struct {
	*base.Repository[*attendance.FinalizationJob]
	db *bun.DB
}

// NewFinalizationJobRepository creates a new FinalizationJobRepository.
func NewFinalizationJobRepository(db *bun.DB) attendance.FinalizationJobRepository {
	return &FinalizationJobRepository{
		Repository: base.NewRepository[*attendance.FinalizationJob](db, "attendance.finalization_jobs", "FinalizationJob"),
		db:         db,
	}
}

func (r *FinalizationJobRepository) conn(ctx context.Context) bun.IDB {
	var db bun.IDB = r.db
	if tx, ok := modelBase.TxFromContext(ctx); ok && tx != nil {
		db = tx
	}
	return db
}

// RegisterIfAbsent inserts a job for sessionID at runAt unless one already
// exists; the unique index on session_id makes registration idempotent
// even under concurrent scheduler ticks.
func (r *FinalizationJobRepository) RegisterIfAbsent(ctx context.Context, sessionID int64, runAt time.Time) (*attendance.FinalizationJob, error) {
	existing, err := r.FindBySessionID(ctx, sessionID)
	if err == nil {
		return existing, nil
	}

	job := &attendance.FinalizationJob{SessionID: sessionID, RunAt: runAt}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if err := job.BeforeAppend(); err != nil {
		return nil, err
	}

	_, err = r.conn(ctx).NewInsert().
		Model(job).
		ModelTableExpr(`attendance.finalization_jobs`).
		On("CONFLICT (session_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "register finalization job", Err: err}
	}

	return r.FindBySessionID(ctx, sessionID)
}

// FindBySessionID looks up the job registered for a session.
func (r *FinalizationJobRepository) FindBySessionID(ctx context.Context, sessionID int64) (*attendance.FinalizationJob, error) {
	job := new(attendance.FinalizationJob)
	err := r.conn(ctx).NewSelect().
		Model(job).
		ModelTableExpr(`attendance.finalization_jobs AS "finalization_job"`).
		Where(`"finalization_job".session_id = ?`, sessionID).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find finalization job by session", Err: err}
	}
	return job, nil
}

// ListDue returns jobs whose run_at has arrived and have not yet executed.
func (r *FinalizationJobRepository) ListDue(ctx context.Context, now time.Time) ([]*attendance.FinalizationJob, error) {
	var jobs []*attendance.FinalizationJob
	err := r.conn(ctx).NewSelect().
		Model(&jobs).
		ModelTableExpr(`attendance.finalization_jobs AS "finalization_job"`).
		Where(`"finalization_job".run_at <= ?`, now).
		Where(`"finalization_job".executed_at IS NULL`).
		Scan(ctx)
	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "list due finalization jobs", Err: err}
	}
	return jobs, nil
}

// MarkExecuted records that a job has run, the idempotency guard that
// makes re-running the finalizer a no-op.
func (r *FinalizationJobRepository) MarkExecuted(ctx context.Context, id int64, executedAt time.Time) error {
	_, err := r.conn(ctx).NewUpdate().
		Model((*attendance.FinalizationJob)(nil)).
		ModelTableExpr(`attendance.finalization_jobs`).
		Set("executed_at = ?", executedAt).
		Where("id = ? AND executed_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return &modelBase.DatabaseError{Op: "mark finalization job executed", Err: err}
	}
	return nil
}

// Create overrides the base Create to enforce validation.
func (r *FinalizationJobRepository) Create(ctx context.Context, job *attendance.FinalizationJob) error {
	if job == nil {
		return fmt.Errorf("finalization job cannot be nil")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, job)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *FinalizationJobRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*attendance.FinalizationJob, error) {
	var jobs []*attendance.FinalizationJob
	query := r.db.NewSelect().Model(&jobs).ModelTableExpr(`attendance.finalization_jobs AS "finalization_job"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list finalization jobs", Err: err}
	}
	return jobs, nil
}
