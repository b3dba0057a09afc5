// Package recognition holds the persisted representation of enrolled-student
// face embeddings. Extraction itself is an external concern (see
// services/recognition.Provider); this package only models the stored,
// unit-normalized vectors and their quality metadata.
package recognition

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/moto-nrw/project-phoenix/models/base"
)

// Embedding is a unit-normalized fixed-dimension face vector captured for
// a student during enrollment. Embeddings are immutable except for
// (soft-)deletion; a student may hold between K_MIN and K_MAX of them.
type Embedding struct {
	base.Model   `bun:"schema:recognition,table:embeddings"`
	StudentID    int64     `bun:"student_id,notnull" json:"student_id"`
	Vector       []float64 `bun:"vector,type:jsonb,notnull" json:"vector"`
	QualityScore float64   `bun:"quality_score,notnull" json:"quality_score"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete" json:"deleted_at,omitempty"`
}

// TableName returns the table name for the Embedding model
func (e *Embedding) TableName() string {
	return "recognition.embeddings"
}

// GetID returns the embedding ID
func (e *Embedding) GetID() interface{} {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *Embedding) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *Embedding) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Validate validates the embedding fields.
func (e *Embedding) Validate() error {
	if e.StudentID <= 0 {
		return errors.New("student ID is required")
	}
	if len(e.Vector) == 0 {
		return errors.New("embedding vector is required")
	}
	for _, v := range e.Vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("embedding vector must be finite")
		}
	}
	if e.QualityScore < 0 {
		return errors.New("quality score must be >= 0")
	}
	return nil
}

// BeforeAppend sets default values before saving to the database.
func (e *Embedding) BeforeAppend() error {
	return e.Model.BeforeAppend()
}

// Normalize rescales Vector to unit length in place. A zero vector is left
// unchanged since the embedding provider contract guarantees non-zero
// vectors; callers should reject zero vectors before reaching this point.
func (e *Embedding) Normalize() {
	var sumSquares float64
	for _, v := range e.Vector {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return
	}
	for i, v := range e.Vector {
		e.Vector[i] = v / norm
	}
}

// EmbeddingRepository defines operations for working with embeddings.
type EmbeddingRepository interface {
	base.Repository[*Embedding]
	FindByStudentID(ctx context.Context, studentID int64) ([]*Embedding, error)
	DeleteByStudentID(ctx context.Context, studentID int64) error
	// FindEnrolledWithEmbeddings returns, for every student enrolled in
	// courseID, their non-deleted embeddings, suitable for matching.
	FindEnrolledWithEmbeddings(ctx context.Context, courseID int64) ([]StudentEmbeddings, error)
}

// StudentEmbeddings groups a student's embeddings for the matcher.
type StudentEmbeddings struct {
	StudentID  int64
	Embeddings []*Embedding
}
