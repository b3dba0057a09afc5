package attendance

import (
	"encoding/base64"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

// RecognizeRequest is the body of POST /recognize: a base64-encoded JPEG/PNG
// frame plus an optional scope narrowing which ACTIVE session it applies
// to. Devices that already know their room/course should set Scope so an
// ambiguous-session outcome is only returned when it genuinely is ambiguous
// within that scope.
type RecognizeRequest struct {
	Image     string         `json:"image"`
	Scope     *ScopeRequest  `json:"scope,omitempty"`
	decodedImage []byte
}

// ScopeRequest narrows RecognizeScope from the wire.
type ScopeRequest struct {
	RoomID    int64 `json:"roomId,omitempty"`
	CourseID  int64 `json:"courseId,omitempty"`
	SessionID int64 `json:"sessionId,omitempty"`
}

// Bind validates the recognize request and decodes the image payload.
func (req *RecognizeRequest) Bind(_ *http.Request) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Image, validation.Required),
	); err != nil {
		return err
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return err
	}
	if len(decoded) == 0 {
		return errEmptyImage
	}
	req.decodedImage = decoded
	return nil
}

// MarkRequest is the body of POST /attendance/mark.
type MarkRequest struct {
	SessionID int64  `json:"sessionId"`
	StudentID int64  `json:"studentId"`
	Status    string `json:"status"`
}

// Bind validates the manual-mark request.
func (req *MarkRequest) Bind(_ *http.Request) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.SessionID, validation.Required),
		validation.Field(&req.StudentID, validation.Required),
		validation.Field(&req.Status, validation.Required, validation.In("PRESENT", "LATE", "ABSENT")),
	)
}

// RecognizeResponse is the response for both /recognize and /attendance/mark.
type RecognizeResponse struct {
	Outcome    string  `json:"outcome"`
	SessionID  int64   `json:"sessionId,omitempty"`
	StudentID  int64   `json:"studentId,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Status     string  `json:"status,omitempty"`
}
