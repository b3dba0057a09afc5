package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	AttendanceReentryEventsFrameKeyVersion     = "1.13.10"
	AttendanceReentryEventsFrameKeyDescription = "Add frame_key to attendance.reentry_events"
)

func init() {
	MigrationRegistry[AttendanceReentryEventsFrameKeyVersion] = &Migration{
		Version:     AttendanceReentryEventsFrameKeyVersion,
		Description: AttendanceReentryEventsFrameKeyDescription,
		DependsOn:   []string{"1.13.6"}, // attendance.reentry_events
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return attendanceReentryEventsFrameKeyUp(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return attendanceReentryEventsFrameKeyDown(ctx, db)
		},
	)
}

func attendanceReentryEventsFrameKeyUp(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.10: Adding frame_key to attendance.reentry_events...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		-- Object storage key for the captured frame behind a suspicious
		-- reentry event (INTRUDER or flagged REENTRY); NULL when no frame
		-- storage backend is configured.
		ALTER TABLE attendance.reentry_events
			ADD COLUMN IF NOT EXISTS frame_key TEXT;
	`)
	if err != nil {
		return fmt.Errorf("error adding frame_key to attendance.reentry_events: %w", err)
	}

	return tx.Commit()
}

func attendanceReentryEventsFrameKeyDown(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.10: Removing frame_key from attendance.reentry_events...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		ALTER TABLE attendance.reentry_events
			DROP COLUMN IF EXISTS frame_key;
	`)
	if err != nil {
		return fmt.Errorf("error dropping frame_key from attendance.reentry_events: %w", err)
	}

	return tx.Commit()
}
