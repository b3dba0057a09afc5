package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceReentryEventsVersion     = "1.13.6"
	AttendanceReentryEventsDescription = "Create attendance.reentry_events table"
)

func init() {
	MigrationRegistry[AttendanceReentryEventsVersion] = &Migration{
		Version:     AttendanceReentryEventsVersion,
		Description: AttendanceReentryEventsDescription,
		DependsOn:   []string{"1.13.4", "1.3.5"}, // attendance.sessions, users.students
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createAttendanceReentryEventsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropAttendanceReentryEventsTable(ctx, db)
		},
	)
}

func createAttendanceReentryEventsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.6: Creating attendance.reentry_events table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attendance.reentry_events (
			id BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL,
			student_id BIGINT NOT NULL,
			action TEXT NOT NULL,
			suspicious BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_reentry_events_session FOREIGN KEY (session_id)
				REFERENCES attendance.sessions(id) ON DELETE CASCADE,
			CONSTRAINT fk_reentry_events_student FOREIGN KEY (student_id)
				REFERENCES users.students(id) ON DELETE CASCADE,
			CONSTRAINT chk_reentry_events_action CHECK (action IN ('FIRST_IN', 'REENTRY', 'INTRUDER'))
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating reentry_events table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_reentry_events_session_id ON attendance.reentry_events(session_id);
		CREATE INDEX IF NOT EXISTS idx_reentry_events_student_id ON attendance.reentry_events(student_id) WHERE suspicious;

		CREATE TRIGGER update_reentry_events_updated_at
		BEFORE UPDATE ON attendance.reentry_events
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for reentry_events table: %w", err)
	}

	return tx.Commit()
}

func dropAttendanceReentryEventsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.6: Removing attendance.reentry_events table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_reentry_events_updated_at ON attendance.reentry_events;
		DROP TABLE IF EXISTS attendance.reentry_events;
	`)
	if err != nil {
		return fmt.Errorf("error dropping attendance.reentry_events table: %w", err)
	}

	return tx.Commit()
}
