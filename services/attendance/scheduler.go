package attendance

import (
	"context"
	"time"

	"github.com/moto-nrw/project-phoenix/logging"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
	educationModels "github.com/moto-nrw/project-phoenix/models/education"
)

// SchedulerOperations runs the three scheduler passes of spec.md §4.6.
// services/scheduler's Scheduler invokes Tick once per configured tick
// interval; the three passes are serialized within a single Tick call, and
// the caller is responsible for preventing overlapping ticks (the same
// ScheduledTask-mutex idiom the rest of the scheduler package uses).
type SchedulerOperations interface {
	Tick(ctx context.Context) error
}

// preActivationWindow is the window before a slot's starts_at in which a
// session is eligible to be materialized, per spec.md §4.6(a).
const preActivationWindow = 2 * time.Minute

func (s *service) Tick(ctx context.Context) error {
	now := s.clock.Now()
	cfg := s.settings.Snapshot()

	if err := s.materializeSessions(ctx, now, cfg); err != nil {
		return &Error{Op: "tick.materialize", Err: err}
	}
	if err := s.activateDueSessions(ctx, now); err != nil {
		return &Error{Op: "tick.activate", Err: err}
	}
	if err := s.closeExpiredSessions(ctx, now); err != nil {
		return &Error{Op: "tick.close", Err: err}
	}
	return nil
}

func (s *service) materializeSessions(ctx context.Context, now time.Time, cfg Snapshot) error {
	today := s.clock.Today()
	weekday := educationModels.WeekdayCodeOf(today)
	if weekday == "" {
		return nil // weekend: the timetable does not schedule weekend sessions
	}

	slots, err := s.store.ActiveTimetableSlotsForWeekday(ctx, weekday)
	if err != nil {
		return err
	}

	activationWindow := time.Duration(cfg.ActivationWindowMinutes) * time.Minute

	for _, slot := range slots {
		startsAt, endsAt := slot.ResolveOn(today)
		if now.Before(startsAt.Add(-preActivationWindow)) || !now.Before(endsAt) {
			continue
		}

		status := attendanceModels.SessionScheduled
		if absDuration(now.Sub(startsAt)) <= activationWindow && now.Before(endsAt) {
			status = attendanceModels.SessionActive
		}

		session, created, err := s.store.FindOrCreateSession(ctx, slot.ID, today, startsAt, endsAt, slot.LateThresholdMinutes, status)
		if err != nil {
			return err
		}
		if !created {
			continue
		}

		runAt := startsAt.Add(time.Duration(slot.LateThresholdMinutes) * time.Minute).Add(time.Duration(cfg.FinalizerBufferMinutes) * time.Minute)
		if _, err := s.store.RegisterFinalizationJob(ctx, session.ID, runAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) activateDueSessions(ctx context.Context, now time.Time) error {
	scheduled, err := s.store.ListSessionsByDateAndStatus(ctx, s.clock.Today(), attendanceModels.SessionScheduled)
	if err != nil {
		return err
	}
	for _, session := range scheduled {
		if session.StartsAt.After(now) || !session.EndsAt.After(now) {
			continue
		}
		if err := s.store.TransitionSession(ctx, session.ID, attendanceModels.SessionScheduled, attendanceModels.SessionActive); err != nil {
			continue // lost the race to another tick or a manual activation
		}
		logging.Logger.WithFields(map[string]interface{}{
			"session_id": session.ID,
			"course_id":  session.CourseID,
		}).Info("session activated")
	}
	return nil
}

func (s *service) closeExpiredSessions(ctx context.Context, now time.Time) error {
	active, err := s.store.ListActiveSessions(ctx, now)
	if err != nil {
		return err
	}
	for _, session := range active {
		if session.EndsAt.After(now) {
			continue
		}

		job, err := s.store.FindFinalizationJobBySession(ctx, session.ID)
		if err != nil {
			continue
		}
		if job == nil || !job.HasRun() {
			finalizer := NewFinalizer(s.store, s.clock, s.settings, s.notifier)
			if err := finalizer.Finalize(ctx, session.ID); err != nil {
				continue
			}
			if job != nil {
				_ = s.store.MarkFinalizationJobExecuted(ctx, job.ID, now)
			}
			continue
		}
		_ = s.store.TransitionSession(ctx, session.ID, attendanceModels.SessionActive, attendanceModels.SessionCompleted)
	}
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
