package enrollment

import (
	"encoding/base64"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/moto-nrw/project-phoenix/models/recognition"
)

var errNoFrames = errors.New("at least one frame is required")

// EnrollRequest is the body of POST /students/{id}/enroll.
type EnrollRequest struct {
	Frames []string `json:"frames"`

	decodedFrames [][]byte
}

// Bind validates the enrollment request and decodes its base64 frames.
func (req *EnrollRequest) Bind(_ *http.Request) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Frames, validation.Required),
	); err != nil {
		return err
	}
	if len(req.Frames) == 0 {
		return errNoFrames
	}

	decoded := make([][]byte, 0, len(req.Frames))
	for _, f := range req.Frames {
		b, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			return errors.New("frame is not valid base64")
		}
		if len(b) == 0 {
			return errors.New("frame decoded to zero bytes")
		}
		decoded = append(decoded, b)
	}
	req.decodedFrames = decoded
	return nil
}

// EmbeddingResponse describes one persisted embedding on the wire, omitting
// the raw vector since callers only need to know enrollment succeeded.
type EmbeddingResponse struct {
	ID           int64   `json:"id"`
	StudentID    int64   `json:"studentId"`
	QualityScore float64 `json:"qualityScore"`
}

func newEmbeddingResponse(e *recognition.Embedding) EmbeddingResponse {
	return EmbeddingResponse{ID: e.ID, StudentID: e.StudentID, QualityScore: e.QualityScore}
}

// EnrollResponse is the response body of POST /students/{id}/enroll.
type EnrollResponse struct {
	StudentID  int64               `json:"studentId"`
	Embeddings []EmbeddingResponse `json:"embeddings"`
}
