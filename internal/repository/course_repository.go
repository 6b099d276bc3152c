package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

// CourseRepository resolves course references for the availability and
// registration engines.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByIDs fetches the courses whose ids appear in ids. Unknown ids are
// simply absent from the result; callers diff to detect them.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, code, department_id, level, semester, unit, created_at, updated_at
		FROM courses WHERE id = ANY($1)`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	return courses, nil
}

// FindByIDsWithFaculty fetches courses with the owning faculty resolved
// through the department join.
func (r *CourseRepository) FindByIDsWithFaculty(ctx context.Context, ids []string) ([]models.CourseWithFaculty, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT c.id, c.name, c.code, c.department_id, c.level, c.semester, c.unit,
		c.created_at, c.updated_at, d.faculty_id
		FROM courses c JOIN departments d ON d.id = c.department_id
		WHERE c.id = ANY($1)`
	var courses []models.CourseWithFaculty
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses with faculty: %w", err)
	}
	return courses, nil
}
