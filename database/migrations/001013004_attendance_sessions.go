package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceSessionsVersion     = "1.13.4"
	AttendanceSessionsDescription = "Create attendance.sessions table"
)

func init() {
	MigrationRegistry[AttendanceSessionsVersion] = &Migration{
		Version:     AttendanceSessionsVersion,
		Description: AttendanceSessionsDescription,
		DependsOn:   []string{"1.13.0", "1.13.1", "1.13.3"}, // schemas, courses, timetable_slots
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createAttendanceSessionsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropAttendanceSessionsTable(ctx, db)
		},
	)
}

func createAttendanceSessionsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.4: Creating attendance.sessions table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attendance.sessions (
			id BIGSERIAL PRIMARY KEY,
			course_id BIGINT NOT NULL,
			timetable_slot_id BIGINT,
			starts_at TIMESTAMPTZ NOT NULL,
			ends_at TIMESTAMPTZ NOT NULL,
			late_threshold_minutes INT NOT NULL DEFAULT 5,
			status TEXT NOT NULL DEFAULT 'SCHEDULED',
			auto_created BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_sessions_course FOREIGN KEY (course_id)
				REFERENCES education.courses(id) ON DELETE CASCADE,
			CONSTRAINT fk_sessions_timetable_slot FOREIGN KEY (timetable_slot_id)
				REFERENCES education.timetable_slots(id) ON DELETE SET NULL,
			CONSTRAINT chk_sessions_status CHECK (status IN ('SCHEDULED', 'ACTIVE', 'COMPLETED', 'CANCELLED'))
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating sessions table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_sessions_status ON attendance.sessions(status);
		CREATE INDEX IF NOT EXISTS idx_sessions_course_id ON attendance.sessions(course_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_timetable_slot_id ON attendance.sessions(timetable_slot_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_starts_at ON attendance.sessions(starts_at);
		-- Used by Store.FindOrCreateSession to look up a slot's session for a given day
		CREATE INDEX IF NOT EXISTS idx_sessions_slot_starts_at ON attendance.sessions(timetable_slot_id, starts_at);

		CREATE TRIGGER update_sessions_updated_at
		BEFORE UPDATE ON attendance.sessions
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for sessions table: %w", err)
	}

	return tx.Commit()
}

func dropAttendanceSessionsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.4: Removing attendance.sessions table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_sessions_updated_at ON attendance.sessions;
		DROP TABLE IF EXISTS attendance.sessions;
	`)
	if err != nil {
		return fmt.Errorf("error dropping attendance.sessions table: %w", err)
	}

	return tx.Commit()
}
