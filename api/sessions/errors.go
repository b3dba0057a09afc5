package sessions

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	attendanceSvc "github.com/moto-nrw/project-phoenix/services/attendance"
)

var errEndBeforeStart = errors.New("endsAt must be after startsAt")

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

// ErrorRenderer maps a session-lifecycle error to an HTTP status.
func ErrorRenderer(err error) render.Renderer {
	renderer := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal Server Error",
		ErrorText:      err.Error(),
	}

	switch {
	case errors.Is(err, attendanceSvc.ErrInvalidTransition):
		renderer.HTTPStatusCode = http.StatusBadRequest
		renderer.StatusText = "Invalid Session Transition"
	case errors.Is(err, attendanceSvc.ErrSessionClosed):
		renderer.HTTPStatusCode = http.StatusConflict
		renderer.StatusText = "Session Closed"
	}

	return renderer
}

// ErrorInvalidRequest returns a 400 Bad Request error response.
func ErrorInvalidRequest(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "Invalid Request", ErrorText: err.Error()}
}

// ErrorNotFound returns a 404 Not Found error response.
func ErrorNotFound(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusNotFound, StatusText: "Not Found", ErrorText: err.Error()}
}
