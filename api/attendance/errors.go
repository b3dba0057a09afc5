package attendance

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	attendanceSvc "github.com/moto-nrw/project-phoenix/services/attendance"
)

var errEmptyImage = errors.New("image payload decoded to zero bytes")

// ErrResponse renderer type, mirroring api/active/errors.go.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

// Render sets the response status code.
func (e *ErrResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrorRenderer maps a service error to an HTTP status, per spec.md §6/§7.
func ErrorRenderer(err error) render.Renderer {
	renderer := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal Server Error",
		ErrorText:      err.Error(),
	}

	switch {
	case errors.Is(err, attendanceSvc.ErrNoActiveSession):
		renderer.HTTPStatusCode = http.StatusNotFound
		renderer.StatusText = "No Active Session"
	case errors.Is(err, attendanceSvc.ErrAmbiguousSession):
		renderer.HTTPStatusCode = http.StatusConflict
		renderer.StatusText = "Ambiguous Session"
	case errors.Is(err, attendanceSvc.ErrSessionClosed):
		renderer.HTTPStatusCode = http.StatusConflict
		renderer.StatusText = "Session Closed"
	case errors.Is(err, attendanceSvc.ErrInvalidTransition):
		renderer.HTTPStatusCode = http.StatusBadRequest
		renderer.StatusText = "Invalid Session Transition"
	case errors.Is(err, attendanceSvc.ErrNotEnrolled):
		renderer.HTTPStatusCode = http.StatusNotFound
		renderer.StatusText = "Student Not Enrolled"
	}

	return renderer
}

// ErrorInvalidRequest returns a 400 Bad Request error response.
func ErrorInvalidRequest(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "Invalid Request", ErrorText: err.Error()}
}

// ErrorInternalServer returns a 500 Internal Server Error response.
func ErrorInternalServer(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, StatusText: "Internal Server Error", ErrorText: err.Error()}
}

// outcomeStatus maps a successful RecognizeResult's Outcome to the HTTP
// status spec.md §6 assigns it. Outcomes are not errors, but several of
// them (NO_FACE, NO_ACTIVE_SESSION, RE_ENTRY, SESSION_CLOSED, ...) are not
// plain 200s either.
func outcomeStatus(outcome string) int {
	switch outcome {
	case string(attendanceSvc.OutcomeNoFace), string(attendanceSvc.OutcomeMultipleFaces):
		return http.StatusBadRequest
	case string(attendanceSvc.OutcomeNoActiveSession), string(attendanceSvc.OutcomeNoEnrolled):
		return http.StatusNotFound
	case string(attendanceSvc.OutcomeAmbiguousSession):
		return http.StatusConflict
	case string(attendanceSvc.OutcomeReEntry):
		return http.StatusConflict
	case string(attendanceSvc.OutcomeSessionClosed):
		return http.StatusConflict
	case string(attendanceSvc.OutcomeIntruder), string(attendanceSvc.OutcomeUnknownFace):
		return http.StatusOK
	default:
		return http.StatusOK
	}
}
