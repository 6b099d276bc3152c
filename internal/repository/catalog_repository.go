package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

// CatalogRepository serves the available-course buckets owned by
// departments and faculties. The owner kind selects the table; the bucket
// column is identical on both.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func catalogTable(kind models.CatalogOwnerKind) string {
	if kind == models.CatalogOwnerFaculty {
		return "faculties"
	}
	return "departments"
}

// FindDepartment fetches a department by id.
func (r *CatalogRepository) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, name, faculty_id, available_courses, created_at, updated_at
		FROM departments WHERE id = $1`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// FindFaculty fetches a faculty by id.
func (r *CatalogRepository) FindFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	const query = `SELECT id, name, available_courses, created_at, updated_at
		FROM faculties WHERE id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// AvailableCourses reads the bucket list for one catalog owner.
func (r *CatalogRepository) AvailableCourses(ctx context.Context, kind models.CatalogOwnerKind, id string) (models.CourseBuckets, error) {
	query := fmt.Sprintf("SELECT available_courses FROM %s WHERE id = $1", catalogTable(kind))
	var buckets models.CourseBuckets
	if err := r.db.GetContext(ctx, &buckets, query, id); err != nil {
		return nil, err
	}
	return buckets, nil
}

// UpdateAvailableCourses overwrites the bucket list for one catalog owner.
func (r *CatalogRepository) UpdateAvailableCourses(ctx context.Context, kind models.CatalogOwnerKind, id string, buckets models.CourseBuckets) error {
	query := fmt.Sprintf("UPDATE %s SET available_courses = $2, updated_at = $3 WHERE id = $1", catalogTable(kind))
	if _, err := r.db.ExecContext(ctx, query, id, buckets, time.Now().UTC()); err != nil {
		return fmt.Errorf("update available courses: %w", err)
	}
	return nil
}
