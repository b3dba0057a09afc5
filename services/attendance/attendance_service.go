package attendance

import (
	"context"
	"time"

	"github.com/moto-nrw/project-phoenix/internal/clock"
	"github.com/moto-nrw/project-phoenix/logging"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
	recognitionSvc "github.com/moto-nrw/project-phoenix/services/recognition"
)

// RecognitionOperations runs frames against the enrolled candidate set and
// commits the resulting attendance state, per spec.md §4.7.
type RecognitionOperations interface {
	Recognize(ctx context.Context, frame []byte, scope RecognizeScope) (RecognizeResult, error)
}

// ManualMarkOperations lets staff mark attendance by hand, bypassing face
// recognition but reusing the same session/enrollment/status rules.
type ManualMarkOperations interface {
	Mark(ctx context.Context, sessionID, studentID int64, status string) (RecognizeResult, error)
}

// SessionLifecycleOperations exposes manual session CRUD, listing, and
// status transitions for the admin-facing `/sessions` surface of spec.md
// §6, on top of the scheduler-driven transitions in scheduler.go.
type SessionLifecycleOperations interface {
	CreateSession(ctx context.Context, courseID int64, startsAt, endsAt time.Time, lateThresholdMinutes int) (*attendanceModels.Session, error)
	GetSession(ctx context.Context, sessionID int64) (*attendanceModels.Session, error)
	ListSessions(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error)
	ListSessionAttendance(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error)
	ActivateSession(ctx context.Context, sessionID int64) error
	EndSession(ctx context.Context, sessionID int64) error
	CancelSession(ctx context.Context, sessionID int64) error
}

// Service is the Attendance Service's public interface, composed of small
// sub-interfaces the way services/active composes ActiveGroupCRUD,
// ActiveGroupFinder, and friends.
type Service interface {
	RecognitionOperations
	ManualMarkOperations
	SessionLifecycleOperations
	SchedulerOperations
	RosterExportOperations
}

// service implements Service.
type service struct {
	store    Store
	provider recognitionSvc.Provider
	clock    clock.Clock
	settings *Settings
	frames   FrameStore
	notifier *AbsenceNotifier
}

// NewService constructs the Attendance Service. frames may be nil, in which
// case intruder frames are logged without a captured image (frame_key left
// NULL), matching how avatar storage degrades when unconfigured. notifier
// may be nil to disable the post-finalize absence-summary email.
func NewService(store Store, provider recognitionSvc.Provider, clk clock.Clock, settings *Settings, frames FrameStore, notifier *AbsenceNotifier) Service {
	return &service{store: store, provider: provider, clock: clk, settings: settings, frames: frames, notifier: notifier}
}

// captureFrame saves frame to the FrameStore and returns its key, or nil if
// no FrameStore is configured or the save fails. Frame capture is
// best-effort: a storage outage must never block the recognition decision
// that the intruder/reentry log is reporting.
func (s *service) captureFrame(ctx context.Context, sessionID, studentID int64, frame []byte) *string {
	if s.frames == nil {
		return nil
	}
	key, err := s.frames.SaveFrame(ctx, sessionID, studentID, frame)
	if err != nil {
		logging.Logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"student_id": studentID,
			"error":      err,
		}).Warn("attendance: failed to capture frame")
		return nil
	}
	return &key
}

// Recognize implements spec.md §4.7. It is intentionally serial and
// runs entirely inside one transaction so that a concurrent recognize
// call for the same session/student cannot race past the upsert.
func (s *service) Recognize(ctx context.Context, frame []byte, scope RecognizeScope) (RecognizeResult, error) {
	now := s.clock.Now()
	cfg := s.settings.Snapshot()

	sessions, err := s.candidateSessions(ctx, scope, now)
	if err != nil {
		return RecognizeResult{}, &Error{Op: "recognize", Err: err}
	}
	if len(sessions) == 0 {
		return RecognizeResult{Outcome: OutcomeNoActiveSession}, nil
	}
	if len(sessions) > 1 {
		return RecognizeResult{Outcome: OutcomeAmbiguousSession}, nil
	}
	session := sessions[0]

	embedResult, err := s.provider.Embed(ctx, frame)
	if err != nil {
		return RecognizeResult{}, &Error{Op: "recognize.embed", Err: err}
	}
	face, outcome := recognitionSvc.ClassifyFaces(embedResult)
	if outcome == recognitionSvc.OutcomeNoFace {
		return RecognizeResult{Outcome: OutcomeNoFace, SessionID: session.ID}, nil
	}
	if outcome == recognitionSvc.OutcomeMultipleFaces {
		return RecognizeResult{Outcome: OutcomeMultipleFaces, SessionID: session.ID}, nil
	}
	queryVector := recognitionSvc.NormalizeVector(face.Vector)

	studentsWithEmbeddings, err := s.store.EnrolledStudentsWithEmbeddings(ctx, session.CourseID)
	if err != nil {
		return RecognizeResult{}, &Error{Op: "recognize.candidates", Err: err}
	}
	if len(studentsWithEmbeddings) == 0 {
		return RecognizeResult{Outcome: OutcomeNoEnrolled, SessionID: session.ID}, nil
	}

	var candidates []recognitionSvc.CandidateEmbedding
	for _, se := range studentsWithEmbeddings {
		for _, e := range se.Embeddings {
			candidates = append(candidates, recognitionSvc.CandidateEmbedding{
				StudentID:   se.StudentID,
				EmbeddingID: e.ID,
				Vector:      e.Vector,
			})
		}
	}

	matcher := recognitionSvc.NewMatcher(cfg.ConfidenceThreshold)
	matchResult := matcher.Match(queryVector, candidates)
	if !matchResult.Match {
		return RecognizeResult{Outcome: OutcomeUnknownFace, SessionID: session.ID}, nil
	}

	var result RecognizeResult
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		enrolled, err := s.store.IsEnrolled(ctx, matchResult.BestStudentID, session.CourseID)
		if err != nil {
			return err
		}
		if !enrolled {
			// Defense in depth: the candidate set above was already
			// restricted to enrolled students, so this should not
			// happen unless enrollment changed mid-request. Captured
			// for the suspicious-activity audit trail.
			frameKey := s.captureFrame(ctx, session.ID, matchResult.BestStudentID, frame)
			if err := s.store.LogReentry(ctx, session.ID, matchResult.BestStudentID, attendanceModels.ActionIntruder, true, frameKey); err != nil {
				return err
			}
			result = RecognizeResult{Outcome: OutcomeIntruder, SessionID: session.ID, StudentID: matchResult.BestStudentID}
			return nil
		}

		existing, err := s.store.FindAttendance(ctx, session.ID, matchResult.BestStudentID)
		if err != nil {
			return err
		}
		if existing != nil {
			confidence := matchResult.BestSimilarity
			row, _, err := s.store.UpsertAttendance(ctx, session.ID, matchResult.BestStudentID, existing.Status, &confidence, now, existing.Method)
			if err != nil {
				return err
			}
			if err := s.store.LogReentry(ctx, session.ID, matchResult.BestStudentID, attendanceModels.ActionReentry, true, nil); err != nil {
				return err
			}
			result = RecognizeResult{
				Outcome:    OutcomeReEntry,
				SessionID:  session.ID,
				StudentID:  matchResult.BestStudentID,
				Confidence: matchResult.BestSimilarity,
				Status:     row.Status,
			}
			return nil
		}

		status := attendanceModels.StatusPresent
		if now.After(session.LateCutoff()) {
			status = attendanceModels.StatusLate
		}
		confidence := matchResult.BestSimilarity
		row, _, err := s.store.UpsertAttendance(ctx, session.ID, matchResult.BestStudentID, status, &confidence, now, attendanceModels.MethodAuto)
		if err != nil {
			return err
		}
		if err := s.store.LogReentry(ctx, session.ID, matchResult.BestStudentID, attendanceModels.ActionFirstIn, false, nil); err != nil {
			return err
		}
		result = RecognizeResult{
			Outcome:    OutcomeMarked,
			SessionID:  session.ID,
			StudentID:  matchResult.BestStudentID,
			Confidence: confidence,
			Status:     row.Status,
		}
		return nil
	})
	if err != nil {
		return RecognizeResult{}, &Error{Op: "recognize.commit", Err: err}
	}
	return result, nil
}

// Mark implements the manual-attendance path: same session/enrollment
// rules as Recognize, but skips embedding/matching entirely.
func (s *service) Mark(ctx context.Context, sessionID, studentID int64, status string) (RecognizeResult, error) {
	now := s.clock.Now()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return RecognizeResult{}, &Error{Op: "mark", Err: err}
	}
	if session.IsTerminal() {
		return RecognizeResult{Outcome: OutcomeSessionClosed, SessionID: sessionID}, nil
	}

	var result RecognizeResult
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		enrolled, err := s.store.IsEnrolled(ctx, studentID, session.CourseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return &Error{Op: "mark", Err: ErrNotEnrolled}
		}

		existing, err := s.store.FindAttendance(ctx, sessionID, studentID)
		if err != nil {
			return err
		}
		outcome := OutcomeMarked
		if existing != nil {
			outcome = OutcomeReEntry
		}

		row, _, err := s.store.UpsertAttendance(ctx, sessionID, studentID, status, nil, now, attendanceModels.MethodManual)
		if err != nil {
			return err
		}
		result = RecognizeResult{Outcome: outcome, SessionID: sessionID, StudentID: studentID, Status: row.Status}
		return nil
	})
	if err != nil {
		return RecognizeResult{}, err
	}
	return result, nil
}

// CreateSession creates a manual (non-timetable-derived) session, per the
// `POST /sessions` endpoint of spec.md §6. Slot uniqueness only applies to
// scheduler-materialized sessions, so manual sessions carry no
// TimetableSlotID.
func (s *service) CreateSession(ctx context.Context, courseID int64, startsAt, endsAt time.Time, lateThresholdMinutes int) (*attendanceModels.Session, error) {
	session := &attendanceModels.Session{
		CourseID:             courseID,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		LateThresholdMinutes: lateThresholdMinutes,
		Status:               attendanceModels.SessionScheduled,
		AutoCreated:          false,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, &Error{Op: "create_session", Err: err}
	}
	return session, nil
}

// GetSession returns one session by ID.
func (s *service) GetSession(ctx context.Context, sessionID int64) (*attendanceModels.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, &Error{Op: "get_session", Err: err}
	}
	return session, nil
}

// ListSessions supports `GET /sessions?date=&status=`.
func (s *service) ListSessions(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error) {
	sessions, err := s.store.ListSessionsByDateAndStatus(ctx, date, status)
	if err != nil {
		return nil, &Error{Op: "list_sessions", Err: err}
	}
	return sessions, nil
}

// ListSessionAttendance supports `GET /sessions/{id}/attendance`.
func (s *service) ListSessionAttendance(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error) {
	rows, err := s.store.ListAttendanceForSession(ctx, sessionID)
	if err != nil {
		return nil, &Error{Op: "list_session_attendance", Err: err}
	}
	return rows, nil
}

// ActivateSession manually transitions SCHEDULED -> ACTIVE, mirroring what
// the scheduler's activateDueSessions pass does automatically.
func (s *service) ActivateSession(ctx context.Context, sessionID int64) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return &Error{Op: "activate_session", Err: err}
	}
	if !session.CanTransitionTo(attendanceModels.SessionActive) {
		return &Error{Op: "activate_session", Err: ErrInvalidTransition}
	}
	if err := s.store.TransitionSession(ctx, sessionID, session.Status, attendanceModels.SessionActive); err != nil {
		return &Error{Op: "activate_session", Err: err}
	}
	logging.Logger.WithFields(map[string]interface{}{"session_id": sessionID}).Info("session manually activated")
	return nil
}

// EndSession manually ends an ACTIVE session by running the Finalizer
// immediately, the same transition the scheduler's close pass performs
// once ends_at has passed.
func (s *service) EndSession(ctx context.Context, sessionID int64) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return &Error{Op: "end_session", Err: err}
	}
	if session.IsTerminal() {
		return nil
	}
	if session.Status != attendanceModels.SessionActive {
		return &Error{Op: "end_session", Err: ErrInvalidTransition}
	}
	finalizer := NewFinalizer(s.store, s.clock, s.settings, s.notifier)
	if err := finalizer.Finalize(ctx, sessionID); err != nil {
		return &Error{Op: "end_session", Err: err}
	}
	return nil
}

// CancelSession transitions a session directly to CANCELLED, e.g. when a
// teacher calls off a lesson.
func (s *service) CancelSession(ctx context.Context, sessionID int64) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return &Error{Op: "cancel_session", Err: err}
	}
	if !session.CanTransitionTo(attendanceModels.SessionCancelled) {
		return &Error{Op: "cancel_session", Err: ErrInvalidTransition}
	}
	if err := s.store.TransitionSession(ctx, sessionID, session.Status, attendanceModels.SessionCancelled); err != nil {
		return &Error{Op: "cancel_session", Err: err}
	}
	logging.Logger.WithFields(map[string]interface{}{"session_id": sessionID}).Info("session cancelled")
	return nil
}

func (s *service) candidateSessions(ctx context.Context, scope RecognizeScope, now time.Time) ([]*attendanceModels.Session, error) {
	if scope.SessionID != 0 {
		session, err := s.store.GetSession(ctx, scope.SessionID)
		if err != nil {
			return nil, err
		}
		if session.Status != attendanceModels.SessionActive {
			return nil, nil
		}
		return []*attendanceModels.Session{session}, nil
	}

	active, err := s.store.ListActiveSessions(ctx, now)
	if err != nil {
		return nil, err
	}
	if scope.CourseID == 0 {
		return active, nil
	}

	var filtered []*attendanceModels.Session
	for _, sess := range active {
		if sess.CourseID != scope.CourseID {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}
