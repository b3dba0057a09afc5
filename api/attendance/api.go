// Package attendance implements the HTTP surface of the Attendance
// Service's recognition and manual-mark operations (spec.md §6),
// following the teacher's Resource-struct + Router() chi.Router
// convention (api/active/api.go).
package attendance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/moto-nrw/project-phoenix/api/common"
	"github.com/moto-nrw/project-phoenix/auth/device"
	"github.com/moto-nrw/project-phoenix/auth/tenant"
	"github.com/moto-nrw/project-phoenix/middleware"
	attendanceSvc "github.com/moto-nrw/project-phoenix/services/attendance"
	iotSvc "github.com/moto-nrw/project-phoenix/services/iot"
)

// Resource defines the attendance API resource.
type Resource struct {
	AttendanceService attendanceSvc.Service
	IoTService        iotSvc.Service
	RecognizeLimiter  *middleware.DeviceRateLimiter
}

// NewResource creates a new attendance resource. IoTService backs the
// device-key authenticator on /recognize: recognition cameras authenticate
// as IoT devices the same way other device-key endpoints do
// (auth/device.DeviceOnlyAuthenticator), rather than introducing a second
// device-credential store. recognizeLimiter throttles /recognize per
// device; pass nil to disable (e.g. in tests).
func NewResource(attendanceService attendanceSvc.Service, iotService iotSvc.Service, recognizeLimiter *middleware.DeviceRateLimiter) *Resource {
	return &Resource{AttendanceService: attendanceService, IoTService: iotService, RecognizeLimiter: recognizeLimiter}
}

// RecognizeRouter returns the device-key-authenticated router for
// /recognize. It must be mounted outside tenant/JWT middleware, the same
// way api/base.go mounts /iot before tenant.Middleware.
func (rs *Resource) RecognizeRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(device.DeviceOnlyAuthenticator(rs.IoTService))
	if rs.RecognizeLimiter != nil {
		r.Use(rs.RecognizeLimiter.Middleware())
	}
	r.Post("/", rs.recognize)
	return r
}

// Router returns the JWT/tenant-authenticated router for manual
// attendance operations.
func (rs *Resource) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.With(tenant.RequiresPermission("attendance:checkin")).Post("/mark", rs.mark)
	return r
}

func (rs *Resource) recognize(w http.ResponseWriter, r *http.Request) {
	req := &RecognizeRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	scope := attendanceSvc.RecognizeScope{}
	if req.Scope != nil {
		scope = attendanceSvc.RecognizeScope{
			RoomID:    req.Scope.RoomID,
			CourseID:  req.Scope.CourseID,
			SessionID: req.Scope.SessionID,
		}
	}

	result, err := rs.AttendanceService.Recognize(r.Context(), req.decodedImage, scope)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}

	response := RecognizeResponse{
		Outcome:    string(result.Outcome),
		SessionID:  result.SessionID,
		StudentID:  result.StudentID,
		Confidence: result.Confidence,
		Status:     result.Status,
	}
	common.Respond(w, r, outcomeStatus(response.Outcome), response, "")
}

func (rs *Resource) mark(w http.ResponseWriter, r *http.Request) {
	req := &MarkRequest{}
	if err := render.Bind(r, req); err != nil {
		common.RenderError(w, r, ErrorInvalidRequest(err))
		return
	}

	result, err := rs.AttendanceService.Mark(r.Context(), req.SessionID, req.StudentID, req.Status)
	if err != nil {
		common.RenderError(w, r, ErrorRenderer(err))
		return
	}

	response := RecognizeResponse{
		Outcome:   string(result.Outcome),
		SessionID: result.SessionID,
		StudentID: result.StudentID,
		Status:    result.Status,
	}
	common.Respond(w, r, outcomeStatus(response.Outcome), response, "")
}
