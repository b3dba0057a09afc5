package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
	educationModels "github.com/moto-nrw/project-phoenix/models/education"
	recognitionModels "github.com/moto-nrw/project-phoenix/models/recognition"
	recognitionSvc "github.com/moto-nrw/project-phoenix/services/recognition"
	"github.com/uptrace/bun"
)

// fakeStore is an in-memory Store for behavioral tests of the Attendance
// Service, Finalizer, and scheduler passes, the same hand-rolled-fake style
// services/enrollment's test suite uses for its collaborators rather than a
// full testify mock of every method on a large composed interface.
type fakeStore struct {
	nextID int64

	sessions     map[int64]*attendanceModels.Session
	attendance   map[int64][]*attendanceModels.Attendance // keyed by session ID
	reentry      []*attendanceModels.ReentryEvent
	enrollments  map[int64][]int64 // course ID -> student IDs
	embeddings   map[int64][]recognitionModels.StudentEmbeddings
	finalization map[int64]*attendanceModels.FinalizationJob // keyed by session ID
	slots        map[string][]*educationModels.TimetableSlot // weekday -> slots
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:     make(map[int64]*attendanceModels.Session),
		attendance:   make(map[int64][]*attendanceModels.Attendance),
		enrollments:  make(map[int64][]int64),
		embeddings:   make(map[int64][]recognitionModels.StudentEmbeddings),
		finalization: make(map[int64]*attendanceModels.FinalizationJob),
		slots:        make(map[string][]*educationModels.TimetableSlot),
	}
}

func (s *fakeStore) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) WithTx(bun.Tx) interface{} { return s }

func (s *fakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) FindOrCreateSession(ctx context.Context, timetableSlotID int64, date time.Time, startsAt, endsAt time.Time, lateThresholdMinutes int, status string) (*attendanceModels.Session, bool, error) {
	for _, sess := range s.sessions {
		if sess.TimetableSlotID != nil && *sess.TimetableSlotID == timetableSlotID && sess.StartsAt.Equal(startsAt) {
			return sess, false, nil
		}
	}
	session := &attendanceModels.Session{
		Model:                base.Model{ID: s.newID()},
		TimetableSlotID:      &timetableSlotID,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		LateThresholdMinutes: lateThresholdMinutes,
		Status:               status,
	}
	s.sessions[session.ID] = session
	return session, true, nil
}

func (s *fakeStore) CreateSession(ctx context.Context, session *attendanceModels.Session) error {
	session.ID = s.newID()
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeStore) GetSession(ctx context.Context, id int64) (*attendanceModels.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	return session, nil
}

func (s *fakeStore) ListActiveSessions(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	var out []*attendanceModels.Session
	for _, sess := range s.sessions {
		if sess.Status == attendanceModels.SessionActive {
			out = append(out, sess)
		}
	}
	sortSessionsByID(out)
	return out, nil
}

func (s *fakeStore) ListSessionsDueToActivate(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	return nil, nil
}

func (s *fakeStore) ListSessionsDueToClose(ctx context.Context, now time.Time) ([]*attendanceModels.Session, error) {
	return nil, nil
}

func (s *fakeStore) ListSessionsByDateAndStatus(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error) {
	var out []*attendanceModels.Session
	for _, sess := range s.sessions {
		if sess.Status == status && sess.StartsAt.Year() == date.Year() && sess.StartsAt.YearDay() == date.YearDay() {
			out = append(out, sess)
		}
	}
	sortSessionsByID(out)
	return out, nil
}

func (s *fakeStore) TransitionSession(ctx context.Context, id int64, fromStatus, toStatus string) error {
	session, ok := s.sessions[id]
	if !ok {
		return errNotFound
	}
	if session.Status != fromStatus {
		return errConflict
	}
	session.Status = toStatus
	return nil
}

func (s *fakeStore) FindAttendance(ctx context.Context, sessionID, studentID int64) (*attendanceModels.Attendance, error) {
	for _, row := range s.attendance[sessionID] {
		if row.StudentID == studentID {
			return row, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListAttendanceForSession(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error) {
	return s.attendance[sessionID], nil
}

func (s *fakeStore) UpsertAttendance(ctx context.Context, sessionID, studentID int64, status string, confidence *float64, now time.Time, method string) (*attendanceModels.Attendance, bool, error) {
	for _, row := range s.attendance[sessionID] {
		if row.StudentID == studentID {
			row.Status = status
			row.Confidence = confidence
			row.Method = method
			row.LastSeenTime = &now
			return row, true, nil
		}
	}
	row := &attendanceModels.Attendance{
		Model:       base.Model{ID: s.newID()},
		SessionID:   sessionID,
		StudentID:   studentID,
		Status:      status,
		Confidence:  confidence,
		Method:      method,
		CheckInTime: &now,
	}
	s.attendance[sessionID] = append(s.attendance[sessionID], row)
	return row, false, nil
}

func (s *fakeStore) InsertAttendance(ctx context.Context, row *attendanceModels.Attendance) error {
	for _, existing := range s.attendance[row.SessionID] {
		if existing.StudentID == row.StudentID {
			return errConflict
		}
	}
	row.ID = s.newID()
	s.attendance[row.SessionID] = append(s.attendance[row.SessionID], row)
	return nil
}

func (s *fakeStore) LogReentry(ctx context.Context, sessionID, studentID int64, action string, suspicious bool, frameKey *string) error {
	s.reentry = append(s.reentry, &attendanceModels.ReentryEvent{
		Model:      base.Model{ID: s.newID()},
		SessionID:  sessionID,
		StudentID:  studentID,
		Action:     action,
		Suspicious: suspicious,
		FrameKey:   frameKey,
	})
	return nil
}

func (s *fakeStore) EnrolledStudentsWithEmbeddings(ctx context.Context, courseID int64) ([]recognitionModels.StudentEmbeddings, error) {
	return s.embeddings[courseID], nil
}

func (s *fakeStore) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	for _, id := range s.enrollments[courseID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) EnrolledStudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	return s.enrollments[courseID], nil
}

func (s *fakeStore) RegisterFinalizationJob(ctx context.Context, sessionID int64, runAt time.Time) (*attendanceModels.FinalizationJob, error) {
	if job, ok := s.finalization[sessionID]; ok {
		return job, nil
	}
	job := &attendanceModels.FinalizationJob{
		Model:     base.Model{ID: s.newID()},
		SessionID: sessionID,
		RunAt:     runAt,
	}
	s.finalization[sessionID] = job
	return job, nil
}

func (s *fakeStore) ListDueFinalizationJobs(ctx context.Context, now time.Time) ([]*attendanceModels.FinalizationJob, error) {
	var out []*attendanceModels.FinalizationJob
	for _, job := range s.finalization {
		if job.HasRun() {
			continue
		}
		if job.RunAt.After(now) {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (s *fakeStore) FindFinalizationJobBySession(ctx context.Context, sessionID int64) (*attendanceModels.FinalizationJob, error) {
	return s.finalization[sessionID], nil
}

func (s *fakeStore) MarkFinalizationJobExecuted(ctx context.Context, id int64, executedAt time.Time) error {
	for _, job := range s.finalization {
		if job.ID == id {
			job.ExecutedAt = &executedAt
			return nil
		}
	}
	return errNotFound
}

func (s *fakeStore) ActiveTimetableSlotsForWeekday(ctx context.Context, weekday string) ([]*educationModels.TimetableSlot, error) {
	return s.slots[weekday], nil
}

func sortSessionsByID(sessions []*attendanceModels.Session) {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
}

var (
	errNotFound = &storeError{"not found"}
	errConflict = &storeError{"conflict"}
)

type storeError struct{ msg string }

func (e *storeError) Error() string { return e.msg }

// fakeProvider returns a fixed set of faces for every frame, letting tests
// drive Recognize's match outcome deterministically.
type fakeProvider struct {
	faces []recognitionSvc.Face
	err   error
}

func (p *fakeProvider) Embed(ctx context.Context, frame []byte) (recognitionSvc.ProviderResult, error) {
	if p.err != nil {
		return recognitionSvc.ProviderResult{}, p.err
	}
	return recognitionSvc.ProviderResult{Faces: p.faces}, nil
}
