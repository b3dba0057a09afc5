package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	RecognitionEmbeddingsVersion     = "1.13.8"
	RecognitionEmbeddingsDescription = "Create recognition.embeddings table"
)

func init() {
	MigrationRegistry[RecognitionEmbeddingsVersion] = &Migration{
		Version:     RecognitionEmbeddingsVersion,
		Description: RecognitionEmbeddingsDescription,
		DependsOn:   []string{"1.13.0", "1.3.5"}, // schemas, users.students
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createRecognitionEmbeddingsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropRecognitionEmbeddingsTable(ctx, db)
		},
	)
}

func createRecognitionEmbeddingsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.8: Creating recognition.embeddings table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recognition.embeddings (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL,
			vector JSONB NOT NULL,
			quality_score DOUBLE PRECISION NOT NULL,
			deleted_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_embeddings_student FOREIGN KEY (student_id)
				REFERENCES users.students(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating embeddings table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		-- The matcher and enrollment Coordinator only ever query
		-- non-deleted embeddings by student.
		CREATE INDEX IF NOT EXISTS idx_embeddings_student_id ON recognition.embeddings(student_id) WHERE deleted_at IS NULL;

		CREATE TRIGGER update_embeddings_updated_at
		BEFORE UPDATE ON recognition.embeddings
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for embeddings table: %w", err)
	}

	return tx.Commit()
}

func dropRecognitionEmbeddingsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.8: Removing recognition.embeddings table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_embeddings_updated_at ON recognition.embeddings;
		DROP TABLE IF EXISTS recognition.embeddings;
	`)
	if err != nil {
		return fmt.Errorf("error dropping recognition.embeddings table: %w", err)
	}

	return tx.Commit()
}
