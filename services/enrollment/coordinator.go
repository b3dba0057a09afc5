package enrollment

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/models/recognition"
)

// Coordinator wraps Service.Enroll with persistence of the resulting
// embeddings, since Enroll itself is a pure pipeline (embed -> gate ->
// score -> dedupe) with no store dependency, mirroring the separation
// between services/recognition's pure Matcher and services/attendance's
// Store-backed commit step.
type Coordinator struct {
	service    *Service
	embeddings recognition.EmbeddingRepository
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(service *Service, embeddings recognition.EmbeddingRepository) *Coordinator {
	return &Coordinator{service: service, embeddings: embeddings}
}

// EnrollAndAttach runs the Enrollment Service pipeline over frames and
// persists the surviving embeddings for studentID, replacing any
// previously-enrolled set. A student re-enrolling (e.g. after a haircut or
// new badge photo) gets exactly the new K_MIN..K_MAX embeddings rather than
// an unbounded accumulation across enrollment sessions.
func (c *Coordinator) EnrollAndAttach(ctx context.Context, studentID int64, frames [][]byte) ([]*recognition.Embedding, error) {
	built, err := c.service.Enroll(ctx, studentID, frames)
	if err != nil {
		return nil, &Error{Op: "enroll_and_attach", Err: err}
	}

	if err := c.embeddings.DeleteByStudentID(ctx, studentID); err != nil {
		return nil, &Error{Op: "enroll_and_attach.replace", Err: fmt.Errorf("delete existing embeddings: %w", err)}
	}

	for _, e := range built {
		if err := c.embeddings.Create(ctx, e); err != nil {
			return nil, &Error{Op: "enroll_and_attach.persist", Err: err}
		}
	}
	return built, nil
}
