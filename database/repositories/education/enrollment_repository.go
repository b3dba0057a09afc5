package education

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/education"
	"github.com/uptrace/bun"
)

// EnrollmentRepository implements education.EnrollmentRepository.
type EnrollmentRepository struct {
	*base.Repository[*education.Enrollment]
	db *bun.DB
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(db *bun.DB) education.EnrollmentRepository {
	return &EnrollmentRepository{
		Repository: base.NewRepository[*education.Enrollment](db, "education.enrollments", "Enrollment"),
		db:         db,
	}
}

// FindByStudentID returns all enrollments for a student.
func (r *EnrollmentRepository) FindByStudentID(ctx context.Context, studentID int64) ([]*education.Enrollment, error) {
	var enrollments []*education.Enrollment
	err := r.db.NewSelect().
		Model(&enrollments).
		ModelTableExpr(`education.enrollments AS "enrollment"`).
		Relation("Course").
		Where(`"enrollment".student_id = ?`, studentID).
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find enrollments by student ID", Err: err}
	}
	return enrollments, nil
}

// FindByCourseID returns all enrollments for a course.
func (r *EnrollmentRepository) FindByCourseID(ctx context.Context, courseID int64) ([]*education.Enrollment, error) {
	var enrollments []*education.Enrollment
	err := r.db.NewSelect().
		Model(&enrollments).
		ModelTableExpr(`education.enrollments AS "enrollment"`).
		Where(`"enrollment".course_id = ?`, courseID).
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find enrollments by course ID", Err: err}
	}
	return enrollments, nil
}

// ExistsForStudentAndCourse reports whether an enrollment already exists.
func (r *EnrollmentRepository) ExistsForStudentAndCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*education.Enrollment)(nil)).
		ModelTableExpr(`education.enrollments AS "enrollment"`).
		Where(`"enrollment".student_id = ? AND "enrollment".course_id = ?`, studentID, courseID).
		Count(ctx)

	if err != nil {
		return false, &modelBase.DatabaseError{Op: "check enrollment existence", Err: err}
	}
	return count > 0, nil
}

// Create overrides the base Create, enforcing the (student_id, course_id)
// uniqueness fail-closed via the database unique constraint.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *education.Enrollment) error {
	if enrollment == nil {
		return fmt.Errorf("enrollment cannot be nil")
	}
	if err := enrollment.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, enrollment)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *EnrollmentRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*education.Enrollment, error) {
	var enrollments []*education.Enrollment
	query := r.db.NewSelect().Model(&enrollments).ModelTableExpr(`education.enrollments AS "enrollment"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list enrollments", Err: err}
	}
	return enrollments, nil
}
