package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	EducationCoursesVersion     = "1.13.1"
	EducationCoursesDescription = "Create education.courses table"
)

func init() {
	MigrationRegistry[EducationCoursesVersion] = &Migration{
		Version:     EducationCoursesVersion,
		Description: EducationCoursesDescription,
		DependsOn:   []string{"0.0.0"},
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createEducationCoursesTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropEducationCoursesTable(ctx, db)
		},
	)
}

func createEducationCoursesTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.1: Creating education.courses table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS education.courses (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			instructor TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating courses table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_courses_active ON education.courses(active);

		CREATE TRIGGER update_courses_updated_at
		BEFORE UPDATE ON education.courses
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for courses table: %w", err)
	}

	return tx.Commit()
}

func dropEducationCoursesTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.1: Removing education.courses table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_courses_updated_at ON education.courses;
		DROP TABLE IF EXISTS education.courses;
	`)
	if err != nil {
		return fmt.Errorf("error dropping education.courses table: %w", err)
	}

	return tx.Commit()
}
