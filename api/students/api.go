// Package students implements the HTTP surface of student directory CRUD,
// following the teacher's Resource-struct + Router() chi.Router convention
// (api/active/api.go). Face enrollment lives in api/enrollment, attendance
// recording in api/attendance — this resource only manages the Student
// record a course roster and the recognition pipeline hang off of.
package students

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/moto-nrw/project-phoenix/api/common"
	"github.com/moto-nrw/project-phoenix/auth/tenant"
	"github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/users"
	userService "github.com/moto-nrw/project-phoenix/services/users"
)

// Resource defines the students API resource.
type Resource struct {
	PersonService userService.PersonService
	StudentRepo   users.StudentRepository
}

// NewResource creates a new students resource.
func NewResource(personService userService.PersonService, studentRepo users.StudentRepository) *Resource {
	return &Resource{
		PersonService: personService,
		StudentRepo:   studentRepo,
	}
}

// Router returns a configured router for student endpoints.
func (rs *Resource) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(tenant.RequiresPermission("student:read")).Get("/", rs.listStudents)
	r.With(tenant.RequiresPermission("student:create")).Post("/", rs.createStudent)
	r.With(tenant.RequiresPermission("student:read")).Get("/{id}", rs.getStudent)
	r.With(tenant.RequiresPermission("student:update")).Put("/{id}", rs.updateStudent)
	r.With(tenant.RequiresPermission("student:delete")).Delete("/{id}", rs.deleteStudent)

	return r
}

// StudentResponse represents a student in API responses.
type StudentResponse struct {
	ID          int64     `json:"id"`
	PersonID    int64     `json:"person_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	ExternalID  string    `json:"external_id,omitempty"`
	Department  string    `json:"department,omitempty"`
	Status      string    `json:"status"`
	SchoolClass string    `json:"school_class"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newStudentResponse(student *users.Student, person *users.Person) *StudentResponse {
	resp := &StudentResponse{
		ID:          student.ID,
		PersonID:    student.PersonID,
		ExternalID:  student.ExternalID,
		Department:  student.Department,
		Status:      student.Status,
		SchoolClass: student.SchoolClass,
		CreatedAt:   student.CreatedAt,
		UpdatedAt:   student.UpdatedAt,
	}
	if person != nil {
		resp.FirstName = person.FirstName
		resp.LastName = person.LastName
	}
	return resp
}

// CreateStudentRequest is the payload for POST /students.
type CreateStudentRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	ExternalID  string `json:"external_id,omitempty"`
	Department  string `json:"department,omitempty"`
	SchoolClass string `json:"school_class"`
}

// Bind validates the decoded request body.
func (req *CreateStudentRequest) Bind(_ *http.Request) error {
	if req.FirstName == "" || req.LastName == "" {
		return errors.New("first_name and last_name are required")
	}
	return nil
}

// UpdateStudentRequest is the payload for PUT /students/{id}.
type UpdateStudentRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
	Department  *string `json:"department,omitempty"`
	SchoolClass *string `json:"school_class,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Bind is a no-op; all fields are optional on update.
func (req *UpdateStudentRequest) Bind(_ *http.Request) error {
	return nil
}

func (rs *Resource) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := rs.StudentRepo.ListWithOptions(r.Context(), base.NewQueryOptions())
	if err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}

	responses := make([]*StudentResponse, 0, len(students))
	for _, student := range students {
		var person *users.Person
		if student.Person != nil {
			person = student.Person
		} else if p, err := rs.PersonService.Get(r.Context(), student.PersonID); err == nil {
			person = p
		}
		responses = append(responses, newStudentResponse(student, person))
	}
	common.Respond(w, r, http.StatusOK, responses, "")
}

func (rs *Resource) getStudent(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid student ID")))
		return
	}

	student, err := rs.StudentRepo.FindByID(r.Context(), id)
	if err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}
	if student == nil {
		common.RenderError(w, r, ErrorNotFound(ErrResourceNotFound))
		return
	}

	person, err := rs.PersonService.Get(r.Context(), student.PersonID)
	if err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}
	common.Respond(w, r, http.StatusOK, newStudentResponse(student, person), "")
}

func (rs *Resource) createStudent(w http.ResponseWriter, r *http.Request) {
	req := &CreateStudentRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	person := &users.Person{FirstName: req.FirstName, LastName: req.LastName}
	if err := rs.PersonService.Create(r.Context(), person); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	student := &users.Student{
		PersonID:    person.ID,
		ExternalID:  req.ExternalID,
		Department:  req.Department,
		SchoolClass: req.SchoolClass,
		Status:      "ACTIVE",
	}
	if err := rs.StudentRepo.Create(r.Context(), student); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	common.Respond(w, r, http.StatusCreated, newStudentResponse(student, person), "")
}

func (rs *Resource) updateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid student ID")))
		return
	}

	student, err := rs.StudentRepo.FindByID(r.Context(), id)
	if err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}
	if student == nil {
		common.RenderError(w, r, ErrorNotFound(ErrResourceNotFound))
		return
	}

	req := &UpdateStudentRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	if req.ExternalID != nil {
		student.ExternalID = *req.ExternalID
	}
	if req.Department != nil {
		student.Department = *req.Department
	}
	if req.SchoolClass != nil {
		student.SchoolClass = *req.SchoolClass
	}
	if req.Status != nil {
		student.Status = *req.Status
	}
	if err := rs.StudentRepo.Update(r.Context(), student); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	person, err := rs.PersonService.Get(r.Context(), student.PersonID)
	if err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}
	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		if err := rs.PersonService.Update(r.Context(), person); err != nil {
			common.RenderError(w, r, ErrorInvalidRequest(err))
			return
		}
	}

	common.Respond(w, r, http.StatusOK, newStudentResponse(student, person), "")
}

func (rs *Resource) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid student ID")))
		return
	}

	if err := rs.StudentRepo.Delete(r.Context(), id); err != nil {
		common.RenderError(w, r, ErrorInternalServer(err))
		return
	}
	common.RespondNoContent(w, r)
}
