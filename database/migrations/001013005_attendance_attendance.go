package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceAttendanceVersion     = "1.13.5"
	AttendanceAttendanceDescription = "Create attendance.attendance table"
)

func init() {
	MigrationRegistry[AttendanceAttendanceVersion] = &Migration{
		Version:     AttendanceAttendanceVersion,
		Description: AttendanceAttendanceDescription,
		DependsOn:   []string{"1.13.4", "1.3.5"}, // attendance.sessions, users.students
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createAttendanceAttendanceTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropAttendanceAttendanceTable(ctx, db)
		},
	)
}

func createAttendanceAttendanceTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.5: Creating attendance.attendance table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attendance.attendance (
			id BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL,
			student_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			check_in_time TIMESTAMPTZ,
			last_seen_time TIMESTAMPTZ,
			confidence DOUBLE PRECISION,
			method TEXT NOT NULL DEFAULT 'AUTO',
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_attendance_session FOREIGN KEY (session_id)
				REFERENCES attendance.sessions(id) ON DELETE CASCADE,
			CONSTRAINT fk_attendance_student FOREIGN KEY (student_id)
				REFERENCES users.students(id) ON DELETE CASCADE,
			CONSTRAINT uk_attendance_session_student UNIQUE (session_id, student_id),
			CONSTRAINT chk_attendance_status CHECK (status IN ('PRESENT', 'LATE', 'ABSENT', 'INTRUDER')),
			CONSTRAINT chk_attendance_method CHECK (method IN ('AUTO', 'MANUAL'))
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating attendance table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_attendance_session_id ON attendance.attendance(session_id);
		CREATE INDEX IF NOT EXISTS idx_attendance_student_id ON attendance.attendance(student_id);
		CREATE INDEX IF NOT EXISTS idx_attendance_status ON attendance.attendance(status);

		CREATE TRIGGER update_attendance_updated_at
		BEFORE UPDATE ON attendance.attendance
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for attendance table: %w", err)
	}

	return tx.Commit()
}

func dropAttendanceAttendanceTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.5: Removing attendance.attendance table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_attendance_updated_at ON attendance.attendance;
		DROP TABLE IF EXISTS attendance.attendance;
	`)
	if err != nil {
		return fmt.Errorf("error dropping attendance.attendance table: %w", err)
	}

	return tx.Commit()
}
