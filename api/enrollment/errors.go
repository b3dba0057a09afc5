package enrollment

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	enrollmentSvc "github.com/moto-nrw/project-phoenix/services/enrollment"
)

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

// ErrorRenderer maps an enrollment-service error to an HTTP status.
func ErrorRenderer(err error) render.Renderer {
	renderer := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal Server Error",
		ErrorText:      err.Error(),
	}

	if errors.Is(err, enrollmentSvc.ErrInsufficientQuality) {
		renderer.HTTPStatusCode = http.StatusUnprocessableEntity
		renderer.StatusText = "Insufficient Quality"
	}

	return renderer
}

// ErrorInvalidRequest returns a 400 Bad Request error response.
func ErrorInvalidRequest(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "Invalid Request", ErrorText: err.Error()}
}
