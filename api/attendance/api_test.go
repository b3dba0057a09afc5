package attendance

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
	attendanceSvc "github.com/moto-nrw/project-phoenix/services/attendance"
)

// mockAttendanceService is a testify mock of attendanceSvc.Service, covering
// the subset this package's handlers call.
type mockAttendanceService struct {
	mock.Mock
}

func (m *mockAttendanceService) Recognize(ctx context.Context, frame []byte, scope attendanceSvc.RecognizeScope) (attendanceSvc.RecognizeResult, error) {
	args := m.Called(ctx, frame, scope)
	return args.Get(0).(attendanceSvc.RecognizeResult), args.Error(1)
}

func (m *mockAttendanceService) Mark(ctx context.Context, sessionID, studentID int64, status string) (attendanceSvc.RecognizeResult, error) {
	args := m.Called(ctx, sessionID, studentID, status)
	return args.Get(0).(attendanceSvc.RecognizeResult), args.Error(1)
}

func (m *mockAttendanceService) CreateSession(ctx context.Context, courseID int64, startsAt, endsAt time.Time, lateThresholdMinutes int) (*attendanceModels.Session, error) {
	args := m.Called(ctx, courseID, startsAt, endsAt, lateThresholdMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceModels.Session), args.Error(1)
}

func (m *mockAttendanceService) GetSession(ctx context.Context, sessionID int64) (*attendanceModels.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceModels.Session), args.Error(1)
}

func (m *mockAttendanceService) ListSessions(ctx context.Context, date time.Time, status string) ([]*attendanceModels.Session, error) {
	args := m.Called(ctx, date, status)
	return args.Get(0).([]*attendanceModels.Session), args.Error(1)
}

func (m *mockAttendanceService) ListSessionAttendance(ctx context.Context, sessionID int64) ([]*attendanceModels.Attendance, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*attendanceModels.Attendance), args.Error(1)
}

func (m *mockAttendanceService) ActivateSession(ctx context.Context, sessionID int64) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockAttendanceService) EndSession(ctx context.Context, sessionID int64) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockAttendanceService) CancelSession(ctx context.Context, sessionID int64) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockAttendanceService) Tick(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockAttendanceService) ExportRoster(ctx context.Context, sessionID int64) ([]byte, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]byte), args.Error(1)
}

func setupTestAPI() (*Resource, *mockAttendanceService) {
	svc := &mockAttendanceService{}
	return NewResource(svc, nil, nil), svc
}

func TestRecognize_ReturnsMarkedOutcome(t *testing.T) {
	rs, svc := setupTestAPI()

	image := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	body, err := json.Marshal(map[string]any{"image": image})
	require.NoError(t, err)

	svc.On("Recognize", mock.Anything, []byte("jpeg-bytes"), attendanceSvc.RecognizeScope{}).
		Return(attendanceSvc.RecognizeResult{Outcome: attendanceSvc.OutcomeMarked, SessionID: 1, StudentID: 2, Status: "PRESENT"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.recognize(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data RecognizeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MARKED", resp.Data.Outcome)
	assert.Equal(t, int64(1), resp.Data.SessionID)
	svc.AssertExpectations(t)
}

func TestRecognize_InvalidBase64RendersBadRequest(t *testing.T) {
	rs, _ := setupTestAPI()

	body, err := json.Marshal(map[string]any{"image": "not-base64!!"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.recognize(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognize_EmptyImageRendersBadRequest(t *testing.T) {
	rs, _ := setupTestAPI()

	body, err := json.Marshal(map[string]any{"image": ""})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.recognize(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognize_NoActiveSessionRendersNotFound(t *testing.T) {
	rs, svc := setupTestAPI()

	image := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	body, err := json.Marshal(map[string]any{"image": image})
	require.NoError(t, err)

	svc.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(attendanceSvc.RecognizeResult{}, attendanceSvc.ErrNoActiveSession)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.recognize(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestRecognize_ScopeIsForwardedToService(t *testing.T) {
	rs, svc := setupTestAPI()

	image := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	body, err := json.Marshal(map[string]any{
		"image": image,
		"scope": map[string]any{"roomId": 5, "courseId": 9, "sessionId": 0},
	})
	require.NoError(t, err)

	wantScope := attendanceSvc.RecognizeScope{RoomID: 5, CourseID: 9}
	svc.On("Recognize", mock.Anything, []byte("jpeg-bytes"), wantScope).
		Return(attendanceSvc.RecognizeResult{Outcome: attendanceSvc.OutcomeNoEnrolled}, nil)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.recognize(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestMark_MarksStudentPresent(t *testing.T) {
	rs, svc := setupTestAPI()

	body, err := json.Marshal(map[string]any{"sessionId": 1, "studentId": 2, "status": "PRESENT"})
	require.NoError(t, err)

	svc.On("Mark", mock.Anything, int64(1), int64(2), "PRESENT").
		Return(attendanceSvc.RecognizeResult{Outcome: attendanceSvc.OutcomeMarked, SessionID: 1, StudentID: 2, Status: "PRESENT"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/mark", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.mark(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMark_RejectsInvalidStatus(t *testing.T) {
	rs, _ := setupTestAPI()

	body, err := json.Marshal(map[string]any{"sessionId": 1, "studentId": 2, "status": "MAYBE"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/mark", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.mark(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMark_SessionClosedRendersConflict(t *testing.T) {
	rs, svc := setupTestAPI()

	body, err := json.Marshal(map[string]any{"sessionId": 1, "studentId": 2, "status": "ABSENT"})
	require.NoError(t, err)

	svc.On("Mark", mock.Anything, int64(1), int64(2), "ABSENT").
		Return(attendanceSvc.RecognizeResult{}, attendanceSvc.ErrSessionClosed)

	r := httptest.NewRequest(http.MethodPost, "/mark", bytes.NewReader(body))
	w := httptest.NewRecorder()

	rs.mark(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	svc.AssertExpectations(t)
}
