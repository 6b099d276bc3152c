package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

const staffColumns = `id, first_name, last_name, middle_name, email, staff_id, role,
	privileges, assigned_courses, department_id, phone, gender, nationality,
	state_of_origin, lga, picture, status, password, otp_pending, otp_expiry,
	otp_code, created_at, updated_at`

// StaffRepository manages persistence for staff rows beyond the shared
// account surface.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByID fetches a staff member by id.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns)
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}

// UpdateAssignedCourses overwrites the lecturer's course assignment.
func (r *StaffRepository) UpdateAssignedCourses(ctx context.Context, id string, courses models.StringList) error {
	const query = `UPDATE staff SET assigned_courses = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, courses, time.Now().UTC()); err != nil {
		return fmt.Errorf("update assigned courses: %w", err)
	}
	return nil
}
