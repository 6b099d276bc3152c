package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

const studentColumns = `id, first_name, last_name, middle_name, email, matric_no, level,
	registered_courses, department_id, phone, gender, nationality, state_of_origin,
	lga, picture, status, password, otp_pending, otp_expiry, otp_code, created_at,
	updated_at`

// StudentRepository manages persistence for student rows beyond the shared
// account surface.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateRegisteredCourses overwrites the student's registration buckets.
func (r *StudentRepository) UpdateRegisteredCourses(ctx context.Context, id string, buckets models.CourseBuckets) error {
	const query = `UPDATE students SET registered_courses = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, buckets, time.Now().UTC()); err != nil {
		return fmt.Errorf("update registered courses: %w", err)
	}
	return nil
}
