package education

import (
	"context"
	"fmt"

	"github.com/moto-nrw/project-phoenix/database/repositories/base"
	modelBase "github.com/moto-nrw/project-phoenix/models/base"
	"github.com/moto-nrw/project-phoenix/models/education"
	"github.com/uptrace/bun"
)

// CourseRepository implements education.CourseRepository.
type CourseRepository struct {
	*base.Repository[*education.Course]
	db *bun.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *bun.DB) education.CourseRepository {
	return &CourseRepository{
		Repository: base.NewRepository[*education.Course](db, "education.courses", "Course"),
		db:         db,
	}
}

// FindByCode finds a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*education.Course, error) {
	course := new(education.Course)
	err := r.db.NewSelect().
		Model(course).
		ModelTableExpr(`education.courses AS "course"`).
		Where(`"course".code = ?`, code).
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find course by code", Err: err}
	}
	return course, nil
}

// FindActive returns all active courses.
func (r *CourseRepository) FindActive(ctx context.Context) ([]*education.Course, error) {
	var courses []*education.Course
	err := r.db.NewSelect().
		Model(&courses).
		ModelTableExpr(`education.courses AS "course"`).
		Where(`"course".active = ?`, true).
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, &modelBase.DatabaseError{Op: "find active courses", Err: err}
	}
	return courses, nil
}

// Create overrides the base Create to enforce validation before insert.
func (r *CourseRepository) Create(ctx context.Context, course *education.Course) error {
	if course == nil {
		return fmt.Errorf("course cannot be nil")
	}
	if err := course.Validate(); err != nil {
		return err
	}
	return r.Repository.Create(ctx, course)
}

// List overrides the base List to use modelBase.QueryOptions.
func (r *CourseRepository) List(ctx context.Context, options *modelBase.QueryOptions) ([]*education.Course, error) {
	var courses []*education.Course
	query := r.db.NewSelect().Model(&courses).ModelTableExpr(`education.courses AS "course"`)

	if options != nil {
		query = options.ApplyToQuery(query)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, &modelBase.DatabaseError{Op: "list courses", Err: err}
	}
	return courses, nil
}
