// Package attendance implements the Attendance Service and Finalizer: the
// recognition-to-attendance pipeline and the session-lifecycle mutations
// that spec.md assigns to the Store.
package attendance

import (
	"context"
	"time"

	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
	"github.com/moto-nrw/project-phoenix/models/base"
	educationModels "github.com/moto-nrw/project-phoenix/models/education"
	recognitionModels "github.com/moto-nrw/project-phoenix/models/recognition"
	"github.com/uptrace/bun"
)

// Store is the transactional persistence facade described in spec.md §4.2.
// It composes the attendance/education/recognition repositories behind a
// single interface so the Attendance Service and Finalizer depend on one
// injectable collaborator.
type Store interface {
	base.TransactionalService

	FindOrCreateSession(ctx context.Context, timetableSlotID int64, date time.Time, startsAt, endsAt time.Time, lateThresholdMinutes int, status string) (*attendanceModels.Session, bool, error)
	CreateSession(ctx context.Context, session *attendanceModels.Session) error
	GetSession(ctx context.Context, id int64) (*attendanceModels.Session, error)
	ListActiveSessions(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error)
	ListSessionsDueToActivate(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error)
	ListSessionsDueToClose(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error)
	ListSessionsByDateAndStatus(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error)
	TransitionSession(ctx context.Context, id int64, fromStatus, toStatus string) error

	FindAttendance(ctx context.Context, sessionID, studentID int64) (*attendanceModels.Attendance, error)
	ListAttendanceForSession(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error)
	UpsertAttendance(ctx context.Context, sessionID, studentID int64, status string, confidence *float64, now time.Time, method string) (row *attendanceModels.Attendance, existed bool, err error)
	InsertAttendance(ctx context.Context, row *attendanceModels.Attendance) error

	LogReentry(ctx context.Context, sessionID, studentID int64, action string, suspicious bool, frameKey *string) error

	EnrolledStudentsWithEmbeddings(ctx context.Context, courseID int64) ([]recognitionModels.StudentEmbeddings, error)
	IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
	EnrolledStudentIDs(ctx context.Context, courseID int64) ([]int64, error)

	RegisterFinalizationJob(ctx context.Context, sessionID int64, runAt time.Time) (*attendanceModels.FinalizationJob, error)
	ListDueFinalizationJobs(ctx context.Context, now time.Time) ([]*attendanceModels.FinalizationJob, error)
	FindFinalizationJobBySession(ctx context.Context, sessionID int64) (*attendanceModels.FinalizationJob, error)
	MarkFinalizationJobExecuted(ctx context.Context, id int64, executedAt time.Time) error

	ActiveTimetableSlotsForWeekday(ctx context.Context, weekday string) ([]*educationModels.TimetableSlot, error)

	// RunInTx runs fn in a single serializable transaction, as required
	// by spec.md §5 for the recognize/mark commit step.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// store is the bun-backed Store implementation.
type store struct {
	tx base.TxHandler

	sessions          attendanceModels.SessionRepository
	attendanceRows    attendanceModels.AttendanceRepository
	reentryEvents     attendanceModels.ReentryEventRepository
	finalizationJobs  attendanceModels.FinalizationJobRepository
	embeddings        recognitionModels.EmbeddingRepository
	enrollments       educationModels.EnrollmentRepository
	timetableSlots    educationModels.TimetableSlotRepository
}

// NewStore constructs the Store from its underlying repositories.
func NewStore(
	db *bun.DB,
	sessions attendanceModels.SessionRepository,
	attendanceRows attendanceModels.AttendanceRepository,
	reentryEvents attendanceModels.ReentryEventRepository,
	finalizationJobs attendanceModels.FinalizationJobRepository,
	embeddings recognitionModels.EmbeddingRepository,
	enrollments educationModels.EnrollmentRepository,
	timetableSlots educationModels.TimetableSlotRepository,
) Store {
	return &store{
		tx:               *base.NewTxHandler(db),
		sessions:         sessions,
		attendanceRows:   attendanceRows,
		reentryEvents:    reentryEvents,
		finalizationJobs: finalizationJobs,
		embeddings:       embeddings,
		enrollments:      enrollments,
		timetableSlots:   timetableSlots,
	}
}

// WithTx returns a Store bound to the given transaction, satisfying
// base.TransactionalService.
func (s *store) WithTx(tx bun.Tx) interface{} {
	bound := *s
	bound.tx = *s.tx.WithTx(tx)
	return &bound
}

func (s *store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context, _ bun.Tx) error {
		return fn(ctx)
	})
}

func (s *store) FindOrCreateSession(ctx context.Context, timetableSlotID int64, date time.Time, startsAt, endsAt time.Time, lateThresholdMinutes int, status string) (*attendanceModels.Session, bool, error) {
	return s.sessions.FindOrCreate(ctx, timetableSlotID, date, startsAt, endsAt, lateThresholdMinutes, status)
}

func (s *store) CreateSession(ctx context.Context, session *attendanceModels.Session) error {
	return s.sessions.Create(ctx, session)
}

func (s *store) GetSession(ctx context.Context, id int64) (*attendanceModels.Session, error) {
	return s.sessions.FindByID(ctx, id)
}

func (s *store) ListActiveSessions(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	return s.sessions.ListActive(ctx, now)
}

func (s *store) ListSessionsDueToActivate(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	return s.sessions.ListDueToActivate(ctx, now)
}

func (s *store) ListSessionsDueToClose(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	return s.sessions.ListDueToClose(ctx, now)
}

func (s *store) ListSessionsByDateAndStatus(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error) {
	return s.sessions.ListByDateAndStatus(ctx, date, status)
}

func (s *store) TransitionSession(ctx context.Context, id int64, fromStatus, toStatus string) error {
	return s.sessions.UpdateStatus(ctx, id, fromStatus, toStatus)
}

func (s *store) FindAttendance(ctx context.Context, sessionID, studentID int64) (*attendanceModels.Attendance, error) {
	return s.attendanceRows.FindBySessionAndStudent(ctx, sessionID, studentID)
}

func (s *store) ListAttendanceForSession(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error) {
	return s.attendanceRows.ListBySession(ctx, sessionID)
}

func (s *store) UpsertAttendance(ctx context.Context, sessionID, studentID int64, status string, confidence *float64, now time.Time, method string) (*attendanceModels.Attendance, bool, error) {
	return s.attendanceRows.Upsert(ctx, sessionID, studentID, status, confidence, now, method)
}

func (s *store) InsertAttendance(ctx context.Context, row *attendanceModels.Attendance) error {
	return s.attendanceRows.Insert(ctx, row)
}

func (s *store) LogReentry(ctx context.Context, sessionID, studentID int64, action string, suspicious bool, frameKey *string) error {
	return s.reentryEvents.Create(ctx, &attendanceModels.ReentryEvent{
		SessionID:  sessionID,
		StudentID:  studentID,
		Action:     action,
		Suspicious: suspicious,
		FrameKey:   frameKey,
	})
}

func (s *store) EnrolledStudentsWithEmbeddings(ctx context.Context, courseID int64) ([]recognitionModels.StudentEmbeddings, error) {
	return s.embeddings.FindEnrolledWithEmbeddings(ctx, courseID)
}

func (s *store) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	return s.enrollments.ExistsForStudentAndCourse(ctx, studentID, courseID)
}

func (s *store) EnrolledStudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	enrollments, err := s.enrollments.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.StudentID
	}
	return ids, nil
}

func (s *store) RegisterFinalizationJob(ctx context.Context, sessionID int64, runAt time.Time) (*attendanceModels.FinalizationJob, error) {
	return s.finalizationJobs.RegisterIfAbsent(ctx, sessionID, runAt)
}

func (s *store) ListDueFinalizationJobs(ctx context.Context, now time.Time) ([]*attendanceModels.FinalizationJob, error) {
	return s.finalizationJobs.ListDue(ctx, now)
}

func (s *store) MarkFinalizationJobExecuted(ctx context.Context, id int64, executedAt time.Time) error {
	return s.finalizationJobs.MarkExecuted(ctx, id, executedAt)
}

func (s *store) FindFinalizationJobBySession(ctx context.Context, sessionID int64) (*attendanceModels.FinalizationJob, error) {
	return s.finalizationJobs.FindBySessionID(ctx, sessionID)
}

func (s *store) ActiveTimetableSlotsForWeekday(ctx context.Context, weekday string) ([]*educationModels.TimetableSlot, error) {
	return s.timetableSlots.FindActiveByWeekday(ctx, weekday)
}
