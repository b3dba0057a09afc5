package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	UsersStudentsAttendanceFieldsVersion     = "1.13.9"
	UsersStudentsAttendanceFieldsDescription = "Add external_id, department, status, deleted_at to users.students"
)

func init() {
	MigrationRegistry[UsersStudentsAttendanceFieldsVersion] = &Migration{
		Version:     UsersStudentsAttendanceFieldsVersion,
		Description: UsersStudentsAttendanceFieldsDescription,
		DependsOn:   []string{"1.3.5"}, // users.students
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return usersStudentsAttendanceFieldsUp(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return usersStudentsAttendanceFieldsDown(ctx, db)
		},
	)
}

func usersStudentsAttendanceFieldsUp(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.9: Adding attendance-engine fields to users.students...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		ALTER TABLE users.students
			ADD COLUMN IF NOT EXISTS external_id TEXT,
			ADD COLUMN IF NOT EXISTS department TEXT,
			ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'ACTIVE',
			ADD COLUMN IF NOT EXISTS deleted_at TIMESTAMPTZ;
	`)
	if err != nil {
		return fmt.Errorf("error adding columns to users.students: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		-- external_id is only unique among non-(soft-)deleted students, so a
		-- re-imported roster can reuse an ID freed up by a deleted student.
		CREATE UNIQUE INDEX IF NOT EXISTS uk_students_external_id_active
			ON users.students(external_id) WHERE deleted_at IS NULL;
	`)
	if err != nil {
		return fmt.Errorf("error creating partial unique index on users.students.external_id: %w", err)
	}

	return tx.Commit()
}

func usersStudentsAttendanceFieldsDown(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.9: Removing attendance-engine fields from users.students...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP INDEX IF EXISTS users.uk_students_external_id_active;
		ALTER TABLE users.students
			DROP COLUMN IF EXISTS external_id,
			DROP COLUMN IF EXISTS department,
			DROP COLUMN IF EXISTS status,
			DROP COLUMN IF EXISTS deleted_at;
	`)
	if err != nil {
		return fmt.Errorf("error dropping attendance-engine fields from users.students: %w", err)
	}

	return tx.Commit()
}
