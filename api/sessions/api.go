// Package sessions implements the HTTP surface of the Attendance Service's
// session-lifecycle operations (spec.md §6), following the teacher's
// Resource-struct + Router() chi.Router convention (api/active/api.go).
package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/moto-nrw/project-phoenix/api/common"
	"github.com/moto-nrw/project-phoenix/auth/tenant"
	"github.com/moto-nrw/project-phoenix/internal/clock"
	attendanceSvc "github.com/moto-nrw/project-phoenix/services/attendance"
)

// Resource defines the sessions API resource.
type Resource struct {
	AttendanceService attendanceSvc.Service
	Clock             clock.Clock
}

// NewResource creates a new sessions resource.
func NewResource(attendanceService attendanceSvc.Service, clk clock.Clock) *Resource {
	return &Resource{AttendanceService: attendanceService, Clock: clk}
}

// Router returns a configured router for session endpoints.
func (rs *Resource) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(tenant.RequiresPermission("session:read")).Get("/", rs.listSessions)
	r.With(tenant.RequiresPermission("session:create")).Post("/", rs.createSession)
	r.With(tenant.RequiresPermission("session:read")).Get("/{id}", rs.getSession)
	r.With(tenant.RequiresPermission("session:read")).Get("/{id}/attendance", rs.getSessionAttendance)
	r.With(tenant.RequiresPermission("session:read")).Get("/{id}/attendance.xlsx", rs.exportSessionRoster)
	r.With(tenant.RequiresPermission("session:update")).Put("/{id}/activate", rs.activateSession)
	r.With(tenant.RequiresPermission("session:update")).Put("/{id}/end", rs.endSession)
	r.With(tenant.RequiresPermission("session:update")).Put("/{id}/cancel", rs.cancelSession)

	return r
}

func (rs *Resource) listSessions(w http.ResponseWriter, r *http.Request) {
	date := rs.Clock.Today()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation(common.DateFormatISO, dateStr, date.Location())
		if err != nil {
			common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid date, expected YYYY-MM-DD")))
			return
		}
		date = parsed
	}
	status := r.URL.Query().Get("status")

	list, err := rs.AttendanceService.ListSessions(r.Context(), date, status)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}

	responses := make([]SessionResponse, 0, len(list))
	for _, s := range list {
		responses = append(responses, newSessionResponse(s))
	}
	common.Respond(w, r, http.StatusOK, responses, "")
}

func (rs *Resource) createSession(w http.ResponseWriter, r *http.Request) {
	req := &CreateSessionRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	session, err := rs.AttendanceService.CreateSession(r.Context(), req.CourseID, req.StartsAt, req.EndsAt, req.LateThresholdMinutes)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}
	common.Respond(w, r, http.StatusCreated, newSessionResponse(session), "")
}

func (rs *Resource) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	session, err := rs.AttendanceService.GetSession(r.Context(), id)
	if err != nil {
		common.RenderError(w, r, ErrorNotFound(err))
		return
	}
	common.Respond(w, r, http.StatusOK, newSessionResponse(session), "")
}

func (rs *Resource) getSessionAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	rows, err := rs.AttendanceService.ListSessionAttendance(r.Context(), id)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}
	responses := make([]AttendanceRowResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, newAttendanceRowResponse(row))
	}
	common.Respond(w, r, http.StatusOK, responses, "")
}

// exportSessionRoster handles GET /sessions/{id}/attendance.xlsx, a
// downloadable roster mirroring the teacher's time-tracking export
// (api/time-tracking.exportSessions).
func (rs *Resource) exportSessionRoster(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	fileBytes, err := rs.AttendanceService.ExportRoster(r.Context(), id)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"session-%d-attendance.xlsx\"", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(fileBytes)))
	if _, err := w.Write(fileBytes); err != nil {
		return
	}
}

func (rs *Resource) activateSession(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	if err := rs.AttendanceService.ActivateSession(r.Context(), id); err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}
	common.RespondNoContent(w, r)
}

func (rs *Resource) endSession(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	if err := rs.AttendanceService.EndSession(r.Context(), id); err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}
	common.RespondNoContent(w, r)
}

func (rs *Resource) cancelSession(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(r)
	if err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(errors.New("invalid session ID")))
		return
	}
	if err := rs.AttendanceService.CancelSession(r.Context(), id); err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}
	common.RespondNoContent(w, r)
}
