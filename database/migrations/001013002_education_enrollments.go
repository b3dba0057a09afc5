package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	EducationEnrollmentsVersion     = "1.13.2"
	EducationEnrollmentsDescription = "Create education.enrollments table"
)

func init() {
	MigrationRegistry[EducationEnrollmentsVersion] = &Migration{
		Version:     EducationEnrollmentsVersion,
		Description: EducationEnrollmentsDescription,
		DependsOn:   []string{"1.13.1", "1.3.5"}, // courses, users.students
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createEducationEnrollmentsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropEducationEnrollmentsTable(ctx, db)
		},
	)
}

func createEducationEnrollmentsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.2: Creating education.enrollments table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS education.enrollments (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL,
			course_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_enrollments_student FOREIGN KEY (student_id)
				REFERENCES users.students(id) ON DELETE CASCADE,
			CONSTRAINT fk_enrollments_course FOREIGN KEY (course_id)
				REFERENCES education.courses(id) ON DELETE CASCADE,
			CONSTRAINT uk_enrollments_student_course UNIQUE (student_id, course_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating enrollments table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON education.enrollments(student_id);
		CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON education.enrollments(course_id);

		CREATE TRIGGER update_enrollments_updated_at
		BEFORE UPDATE ON education.enrollments
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for enrollments table: %w", err)
	}

	return tx.Commit()
}

func dropEducationEnrollmentsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.2: Removing education.enrollments table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_enrollments_updated_at ON education.enrollments;
		DROP TABLE IF EXISTS education.enrollments;
	`)
	if err != nil {
		return fmt.Errorf("error dropping education.enrollments table: %w", err)
	}

	return tx.Commit()
}
