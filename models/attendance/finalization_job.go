package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/moto-nrw/project-phoenix/models/base"
)

// FinalizationJob is a one-shot job registered when a session is
// materialized, scheduled to run at starts_at + late_threshold + buffer.
// Registration is idempotent per session (unique on SessionID); the
// ExternalID gives the job a stable identity for idempotency keys when
// the scheduler hands it to a worker.
type FinalizationJob struct {
	base.Model `bun:"schema:attendance,table:finalization_jobs"`
	ExternalID uuid.UUID  `bun:"external_id,type:uuid,notnull,unique" json:"external_id"`
	SessionID  int64      `bun:"session_id,notnull,unique" json:"session_id"`
	RunAt      time.Time  `bun:"run_at,notnull" json:"run_at"`
	ExecutedAt *time.Time `bun:"executed_at" json:"executed_at,omitempty"`
}

// TableName returns the table name for the FinalizationJob model.
func (j *FinalizationJob) TableName() string {
	return "attendance.finalization_jobs"
}

// GetID returns the job row ID.
func (j *FinalizationJob) GetID() interface{} {
	return j.ID
}

// GetCreatedAt returns the creation timestamp.
func (j *FinalizationJob) GetCreatedAt() time.Time {
	return j.CreatedAt
}

// GetUpdatedAt returns the last update timestamp.
func (j *FinalizationJob) GetUpdatedAt() time.Time {
	return j.UpdatedAt
}

// Validate validates the finalization job fields.
func (j *FinalizationJob) Validate() error {
	if j.SessionID <= 0 {
		return errors.New("session ID is required")
	}
	if j.RunAt.IsZero() {
		return errors.New("run_at is required")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database.
func (j *FinalizationJob) BeforeAppend() error {
	if err := j.Model.BeforeAppend(); err != nil {
		return err
	}
	if j.ExternalID.IsNil() {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		j.ExternalID = id
	}
	return nil
}

// HasRun reports whether the job has already been executed.
func (j *FinalizationJob) HasRun() bool {
	return j.ExecutedAt != nil
}

// FinalizationJobRepository defines operations for working with
// finalization jobs.
type FinalizationJobRepository interface {
	base.Repository[*FinalizationJob]

	// RegisterIfAbsent inserts a job for sessionID at runAt if one does
	// not already exist; idempotent per session.
	RegisterIfAbsent(ctx context.Context, sessionID int64, runAt time.Time) (*FinalizationJob, error)

	FindBySessionID(ctx context.Context, sessionID int64) (*FinalizationJob, error)
	ListDue(ctx context.Context, now time.Time) ([]*FinalizationJob, error)
	MarkExecuted(ctx context.Context, id int64, executedAt time.Time) error
}
