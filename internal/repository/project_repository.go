package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

const projectColumns = `id, name, course_id, year, description, deadline, submissions,
	created_by, created_at, updated_at`

// ProjectRepository manages persistence for course projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID fetches a project by id.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE id = $1", projectColumns)
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByCreator returns the projects owned by one staff member, newest
// first.
func (r *ProjectRepository) ListByCreator(ctx context.Context, staffID string) ([]models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE created_by = $1 ORDER BY created_at DESC", projectColumns)
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, staffID); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListByCourseIDs returns the projects attached to any of the given
// courses, soonest deadline first.
func (r *ProjectRepository) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Project, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM projects WHERE course_id = ANY($1) ORDER BY deadline ASC", projectColumns)
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list projects by course: %w", err)
	}
	return projects, nil
}

// UpdateSubmissions overwrites a project's submission list.
func (r *ProjectRepository) UpdateSubmissions(ctx context.Context, id string, submissions models.Submissions) error {
	const query = `UPDATE projects SET submissions = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, submissions, time.Now().UTC()); err != nil {
		return fmt.Errorf("update submissions: %w", err)
	}
	return nil
}
