// Package enrollment implements the HTTP surface of the Enrollment
// Service's Coordinator (spec.md §5), following the teacher's
// Resource-struct + Router() chi.Router convention (api/active/api.go).
//
// It is mounted as its own resource rather than folded into api/students
// so the face-enrollment pipeline (quality gating, embedding persistence)
// stays decoupled from student CRUD.
package enrollment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/moto-nrw/project-phoenix/api/common"
	"github.com/moto-nrw/project-phoenix/auth/tenant"
	enrollmentSvc "github.com/moto-nrw/project-phoenix/services/enrollment"
)

// Resource defines the enrollment API resource.
type Resource struct {
	Coordinator *enrollmentSvc.Coordinator
}

// NewResource creates a new enrollment resource.
func NewResource(coordinator *enrollmentSvc.Coordinator) *Resource {
	return &Resource{Coordinator: coordinator}
}

// Router returns a configured router for enrollment endpoints.
func (rs *Resource) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.With(tenant.RequiresPermission("student:enroll")).Post("/students/{id}", rs.enroll)
	return r
}

func (rs *Resource) enroll(w http.ResponseWriter, r *http.Request) {
	studentID, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid student ID")))
		return
	}

	req := &EnrollRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	embeddings, err := rs.Coordinator.EnrollAndAttach(r.Context(), studentID, req.decodedFrames)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}

	responses := make([]EmbeddingResponse, 0, len(embeddings))
	for _, e := range embeddings {
		responses = append(responses, newEmbeddingResponse(e))
	}
	common.Respond(w, r, http.StatusCreated, EnrollResponse{StudentID: studentID, Embeddings: responses}, "")
}
