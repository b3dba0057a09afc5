package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceFinalizationJobsVersion     = "1.13.7"
	AttendanceFinalizationJobsDescription = "Create attendance.finalization_jobs table"
)

func init() {
	MigrationRegistry[AttendanceFinalizationJobsVersion] = &Migration{
		Version:     AttendanceFinalizationJobsVersion,
		Description: AttendanceFinalizationJobsDescription,
		DependsOn:   []string{"1.13.4"}, // attendance.sessions
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createAttendanceFinalizationJobsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropAttendanceFinalizationJobsTable(ctx, db)
		},
	)
}

func createAttendanceFinalizationJobsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.7: Creating attendance.finalization_jobs table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attendance.finalization_jobs (
			id BIGSERIAL PRIMARY KEY,
			external_id UUID NOT NULL DEFAULT gen_random_uuid() UNIQUE,
			session_id BIGINT NOT NULL UNIQUE,
			run_at TIMESTAMPTZ NOT NULL,
			executed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_finalization_jobs_session FOREIGN KEY (session_id)
				REFERENCES attendance.sessions(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating finalization_jobs table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		-- Partial index over the rows the scheduler's close-expired pass scans
		CREATE INDEX IF NOT EXISTS idx_finalization_jobs_due ON attendance.finalization_jobs(run_at) WHERE executed_at IS NULL;

		CREATE TRIGGER update_finalization_jobs_updated_at
		BEFORE UPDATE ON attendance.finalization_jobs
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for finalization_jobs table: %w", err)
	}

	return tx.Commit()
}

func dropAttendanceFinalizationJobsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.7: Removing attendance.finalization_jobs table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_finalization_jobs_updated_at ON attendance.finalization_jobs;
		DROP TABLE IF EXISTS attendance.finalization_jobs;
	`)
	if err != nil {
		return fmt.Errorf("error dropping attendance.finalization_jobs table: %w", err)
	}

	return tx.Commit()
}
