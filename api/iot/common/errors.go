package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/render"
	"github.com/moto-nrw/project-phoenix/api/common"
	iotSvc "github.com/moto-nrw/project-phoenix/services/iot"
)

// RenderError renders an error response and logs any render failures.
// Exported for use by sub-packages (devices, ...).
func RenderError(w http.ResponseWriter, r *http.Request, renderer render.Renderer) {
	if err := render.Render(w, r, renderer); err != nil {
		log.Printf("Render error: %v", err)
	}
}

// Common error variables
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInternalServer   = errors.New("internal server error")
	ErrResourceNotFound = errors.New("resource not found")
)

// Error message constants for reuse across handlers
const (
	ErrMsgInvalidDeviceID  = "invalid device ID"
	ErrMsgDeviceIDRequired = "device ID is required"
)

// ErrorInvalidRequest returns a 400 Bad Request error response
func ErrorInvalidRequest(err error) render.Renderer {
	return common.ErrorInvalidRequest(err)
}

// ErrorInternalServer returns a 500 Internal Server Error response
func ErrorInternalServer(err error) render.Renderer {
	return common.ErrorInternalServer(err)
}

// ErrorNotFound returns a 404 Not Found error response
func ErrorNotFound(err error) render.Renderer {
	return common.ErrorNotFound(err)
}

// ErrorConflict returns a 409 Conflict error response
func ErrorConflict(err error) render.Renderer {
	return common.ErrorConflict(err)
}

// ErrorForbidden returns a 403 Forbidden error response
func ErrorForbidden(err error) render.Renderer {
	return common.ErrorForbidden(err)
}

// ErrorRenderer renders an error to an HTTP response based on the IoT service error type
func ErrorRenderer(err error) render.Renderer {
	if iotErr, ok := err.(*iotSvc.IoTError); ok {
		return handleIoTServiceError(iotErr)
	}

	return ErrorInternalServer(err)
}

// handleIoTServiceError maps IoT service errors to HTTP responses
func handleIoTServiceError(iotErr *iotSvc.IoTError) render.Renderer {
	switch iotErr.Unwrap() {
	case iotSvc.ErrDeviceNotFound:
		return ErrorNotFound(iotErr)
	case iotSvc.ErrInvalidDeviceData:
		return ErrorInvalidRequest(iotErr)
	case iotSvc.ErrDuplicateDeviceID:
		return ErrorConflict(iotErr)
	case iotSvc.ErrInvalidStatus:
		return ErrorInvalidRequest(iotErr)
	case iotSvc.ErrDeviceOffline:
		return ErrorConflict(iotErr)
	case iotSvc.ErrNetworkScanFailed:
		return ErrorInternalServer(iotErr)
	case iotSvc.ErrDatabaseOperation:
		return ErrorInternalServer(iotErr)
	default:
		return handleIoTErrorTypes(iotErr)
	}
}

// handleIoTErrorTypes handles specific IoT error types
func handleIoTErrorTypes(iotErr *iotSvc.IoTError) render.Renderer {
	switch iotErr.Err.(type) {
	case *iotSvc.DeviceNotFoundError:
		return ErrorNotFound(iotErr)
	case *iotSvc.InvalidDeviceDataError:
		return ErrorInvalidRequest(iotErr)
	case *iotSvc.DuplicateDeviceIDError:
		return ErrorConflict(iotErr)
	case *iotSvc.DeviceOfflineError:
		return ErrorConflict(iotErr)
	case *iotSvc.NetworkScanError:
		return ErrorInternalServer(iotErr)
	default:
		return ErrorInternalServer(iotErr)
	}
}
