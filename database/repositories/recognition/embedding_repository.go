package recognition

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/recognition"
	"github.com/uptrace/bun"
)

// EmbeddingRepository implements recognition.EmbeddingRepository.
type EmbeddingRepository struct {
	*base.Repository[*recognition.Embedding]
	db *bun.DB
}

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(db *bun.DB) recognition.EmbeddingRepository {
	return &EmbeddingRepository{
		Repository: base.NewRepository[*recognition.Embedding](db, "recognition.embeddings", "Embedding"),
		db:         db,
	}
}

// FindByStudentID returns a student's non-deleted embeddings.
func (r *EmbeddingRepository) FindByStudentID(ctx context.Context, studentID int64) ([]*recognition.Embedding, error) {
	var embeddings []*recognition.Embedding
	err := r.db.NewSelect().
		Model(&embeddings).
		ModelTableExpr(`recognition.embeddings AS "embedding"`).
		Where(`"embedding".student_id = ?`, studentID).
		Where(`"embedding".deleted_at IS NULL`).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find embeddings by student ID", Err: err}
	}
	return embeddings, nil
}

// DeleteByStudentID soft-deletes all of a student's embeddings, cascading
// the student's own soft-delete per the ownership rule in §3.
func (r *EmbeddingRepository) DeleteByStudentID(ctx context.Context, studentID int64) error {
	_, err := r.db.NewUpdate().
		Model((*recognition.Embedding)(nil)).
		ModelTableExpr(`recognition.embeddings`).
		Set("deleted_at = now()").
		Where("student_id = ? AND deleted_at IS NULL", studentID).
		Exec(ctx)

	if err != nil {
		return &modelBase.DatabaseError{Op: "delete embeddings by student ID", Err: err}
	}
	return nil
}

// FindEnrolledWithEmbeddings returns embeddings grouped by student for
// every student enrolled in courseID, the dense view the matcher consumes.
func (r *EmbeddingRepository) FindEnrolledWithEmbeddings(ctx context.Context, courseID int64) ([]recognition.StudentEmbeddings, error) {
	var rows []*recognition.Embedding
	err := r.db.NewSelect().
		Model(&rows).
		ModelTableExpr(`recognition.embeddings AS "embedding"`).
		Join(`JOIN education.enrollments AS "enrollment" ON "enrollment".student_id = "embedding".student_id`).
		Where(`"enrollment".course_id = ?`, courseID).
		Where(`"embedding".deleted_at IS NULL`).
		Order(`"embedding".student_id ASC`).
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find enrolled embeddings", Err: err}
	}

	grouped := make(map[int64][]*recognition.Embedding)
	order := make([]int64, 0)
	for _, e := range rows {
		if _, ok := grouped[e.StudentID]; !ok {
			order = append(order, e.StudentID)
		}
		grouped[e.StudentID] = append(grouped[e.StudentID], e)
	}

	result := make([]recognition.StudentEmbeddings, 0, len(order))
	for _, studentID := range order {
		result = append(result, recognition.StudentEmbeddings{
			StudentID:  studentID,
			Embeddings: grouped[studentID],
		})
	}
	return result, nil
}

// Create overrides the base Create to normalize and validate.
func (r *EmbeddingRepository) Create(ctx context.Context, e *recognition.Embedding) error {
	if e == nil {
		return fmt.Errorf("embedding cannot be nil")
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, e)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *EmbeddingRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*recognition.Embedding, error) {
	var embeddings []*recognition.Embedding
	query := r.db.NewSelect().Model(&embeddings).ModelTableExpr(`recognition.embeddings AS "embedding"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list embeddings", Err: err}
	}
	return embeddings, nil
}
