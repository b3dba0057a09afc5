package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceRecognitionSchemasVersion     = "1.13.0"
	AttendanceRecognitionSchemasDescription = "Create attendance and recognition schemas"
)

func init() {
	MigrationRegistry[AttendanceRecognitionSchemasVersion] = &Migration{
		Version:     AttendanceRecognitionSchemasVersion,
		Description: AttendanceRecognitionSchemasDescription,
		DependsOn:   []string{"0.0.0"},
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Migration 1.13.0: Creating attendance and recognition schemas...")

			tx, err := db.BeginTx(ctx, &sql.TxOptions{})
			if err != nil {
				return fmt.Errorf("failed to begin transaction: %w", err)
			}
			defer func() { _ = tx.Rollback() }()

			_, err = tx.ExecContext(ctx, `
				CREATE SCHEMA IF NOT EXISTS attendance;
				CREATE SCHEMA IF NOT EXISTS recognition;
			`)
			if err != nil {
				return fmt.Errorf("error creating schemas: %w", err)
			}

			return tx.Commit()
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Rolling back migration 1.13.0: Removing attendance and recognition schemas...")

			tx, err := db.BeginTx(ctx, &sql.TxOptions{})
			if err != nil {
				return fmt.Errorf("failed to begin transaction: %w", err)
			}
			defer func() { _ = tx.Rollback() }()

			_, err = tx.ExecContext(ctx, `
				DROP SCHEMA IF EXISTS recognition;
				DROP SCHEMA IF EXISTS attendance;
			`)
			if err != nil {
				return fmt.Errorf("error dropping schemas: %w", err)
			}

			return tx.Commit()
		},
	)
}
