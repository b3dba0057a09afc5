package attendance

import (
	"context"

	"github.com/moto-nrw/project-phoenix/internal/clock"
	"github.com/moto-nrw/project-phoenix/logging"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
)

// Finalizer runs spec.md §4.8: at a session's scheduled finalize time, it
// inserts ABSENT rows for every enrolled student who never checked in and
// closes the session. It is idempotent: a second run on an already
// COMPLETED session is a no-op.
type Finalizer struct {
	store    Store
	clock    clock.Clock
	settings *Settings
	notifier *AbsenceNotifier
}

// NewFinalizer constructs a Finalizer. notifier may be nil to disable the
// absence-summary email entirely.
func NewFinalizer(store Store, clk clock.Clock, settings *Settings, notifier *AbsenceNotifier) *Finalizer {
	return &Finalizer{store: store, clock: clk, settings: settings, notifier: notifier}
}

// Finalize runs the finalization steps for one session inside a single
// transaction, per spec.md §4.8.
func (f *Finalizer) Finalize(ctx context.Context, sessionID int64) error {
	var session *attendanceModels.Session
	var absentIDs []int64

	err := f.store.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = f.store.GetSession(ctx, sessionID)
		if err != nil {
			return &Error{Op: "finalize", Err: err}
		}
		if session.IsTerminal() {
			return nil
		}

		enrolledIDs, err := f.store.EnrolledStudentIDs(ctx, session.CourseID)
		if err != nil {
			return &Error{Op: "finalize.enrolled", Err: err}
		}

		rows, err := f.store.ListAttendanceForSession(ctx, sessionID)
		if err != nil {
			return &Error{Op: "finalize.attendance", Err: err}
		}
		attended := make(map[int64]bool, len(rows))
		for _, r := range rows {
			if r.Status == attendanceModels.StatusPresent || r.Status == attendanceModels.StatusLate {
				attended[r.StudentID] = true
			}
		}

		for _, studentID := range enrolledIDs {
			if attended[studentID] {
				continue
			}
			row := &attendanceModels.Attendance{
				SessionID: sessionID,
				StudentID: studentID,
				Status:    attendanceModels.StatusAbsent,
				Method:    attendanceModels.MethodAuto,
			}
			if err := f.store.InsertAttendance(ctx, row); err != nil {
				// The uniqueness constraint on (session_id, student_id)
				// makes a second finalizer run a no-op here.
				continue
			}
			absentIDs = append(absentIDs, studentID)
		}

		if err := f.store.TransitionSession(ctx, sessionID, session.Status, attendanceModels.SessionCompleted); err != nil {
			return &Error{Op: "finalize.complete", Err: err}
		}
		logging.Logger.WithFields(map[string]interface{}{"session_id": sessionID}).Info("session finalized")
		return nil
	})
	if err != nil {
		return err
	}

	if f.settings != nil {
		f.notifier.Notify(ctx, session, f.settings.Snapshot().AbsenceNotifyAddress, absentIDs)
	}
	return nil
}

// FinalizeDue runs Finalize for every session whose registered
// FinalizationJob is due, marking each job executed as it completes so a
// scheduler restart does not re-run a job that already fired.
func (f *Finalizer) FinalizeDue(ctx context.Context) (int, error) {
	now := f.clock.Now()
	jobs, err := f.store.ListDueFinalizationJobs(ctx, now)
	if err != nil {
		return 0, &Error{Op: "finalize_due", Err: err}
	}

	finalized := 0
	for _, job := range jobs {
		if err := f.Finalize(ctx, job.SessionID); err != nil {
			logging.Logger.WithFields(map[string]interface{}{"session_id": job.SessionID, "error": err}).Error("finalize failed")
			continue
		}
		if err := f.store.MarkFinalizationJobExecuted(ctx, job.ID, now); err != nil {
			logging.Logger.WithFields(map[string]interface{}{"job_id": job.ID, "error": err}).Error("mark finalization job executed failed")
			continue
		}
		finalized++
	}
	return finalized, nil
}
