package iot

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/moto-nrw/project-phoenix/api/iot/devices"
	"github.com/moto-nrw/project-phoenix/auth/jwt"
	iotSvc "github.com/moto-nrw/project-phoenix/services/iot"
)

// ServiceDependencies groups the service dependencies for the IoT resource.
type ServiceDependencies struct {
	IoTService iotSvc.Service
}

// Resource defines the IoT API resource. It exposes device registration and
// management so that recognition cameras exist as rows before they can
// authenticate against the device-key path.
type Resource struct {
	IoTService iotSvc.Service
}

// NewResource creates a new IoT resource.
func NewResource(deps ServiceDependencies) *Resource {
	return &Resource{
		IoTService: deps.IoTService,
	}
}

// Router returns a configured router for IoT device management endpoints.
func (rs *Resource) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	tokenAuth, _ := jwt.NewTokenAuth()

	r.Group(func(r chi.Router) {
		r.Use(tokenAuth.Verifier())
		r.Use(jwt.Authenticator)

		devicesResource := devices.NewResource(rs.IoTService)
		r.Mount("/", devicesResource.Router())
	})

	return r
}
