package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	EducationTimetableSlotsVersion     = "1.13.3"
	EducationTimetableSlotsDescription = "Create education.timetable_slots table"
)

func init() {
	MigrationRegistry[EducationTimetableSlotsVersion] = &Migration{
		Version:     EducationTimetableSlotsVersion,
		Description: EducationTimetableSlotsDescription,
		DependsOn:   []string{"1.13.1"}, // courses
	}

	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return createEducationTimetableSlotsTable(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropEducationTimetableSlotsTable(ctx, db)
		},
	)
}

func createEducationTimetableSlotsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Migration 1.13.3: Creating education.timetable_slots table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS education.timetable_slots (
			id BIGSERIAL PRIMARY KEY,
			weekday TEXT NOT NULL,
			slot_index INT NOT NULL,
			course_id BIGINT NOT NULL,
			start_time_of_day TIME NOT NULL,
			end_time_of_day TIME NOT NULL,
			late_threshold_minutes INT NOT NULL DEFAULT 5,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT fk_timetable_slots_course FOREIGN KEY (course_id)
				REFERENCES education.courses(id) ON DELETE CASCADE,
			CONSTRAINT uk_timetable_slots_weekday_slot UNIQUE (weekday, slot_index)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating timetable_slots table: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_timetable_slots_weekday ON education.timetable_slots(weekday) WHERE active;
		CREATE INDEX IF NOT EXISTS idx_timetable_slots_course_id ON education.timetable_slots(course_id);

		CREATE TRIGGER update_timetable_slots_updated_at
		BEFORE UPDATE ON education.timetable_slots
		FOR EACH ROW
		EXECUTE FUNCTION update_modified_column();
	`)
	if err != nil {
		return fmt.Errorf("error creating indexes/triggers for timetable_slots table: %w", err)
	}

	return tx.Commit()
}

func dropEducationTimetableSlotsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Rolling back migration 1.13.3: Removing education.timetable_slots table...")

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DROP TRIGGER IF EXISTS update_timetable_slots_updated_at ON education.timetable_slots;
		DROP TABLE IF EXISTS education.timetable_slots;
	`)
	if err != nil {
		return fmt.Errorf("error dropping education.timetable_slots table: %w", err)
	}

	return tx.Commit()
}
