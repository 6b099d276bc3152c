package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type projectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ListByCreator(ctx context.Context, staffID string) ([]models.Project, error)
	ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Project, error)
	UpdateSubmissions(ctx context.Context, id string, submissions models.Submissions) error
}

// ProjectService covers both sides of a project: students submit answers
// before the deadline, the owning staff grades them after it.
type ProjectService struct {
	repo      projectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{repo: repo, validator: validate, logger: logger}
}

// ListMine returns the projects created by the acting staff.
func (s *ProjectService) ListMine(ctx context.Context, acting *models.Staff) ([]models.Project, error) {
	projects, err := s.repo.ListByCreator(ctx, acting.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return projects, nil
}

// ListForStudent returns the projects attached to any course the student
// has registered.
func (s *ProjectService) ListForStudent(ctx context.Context, student *models.Student) ([]models.Project, error) {
	var courseIDs []string
	for _, bucket := range student.RegisteredCourses {
		courseIDs = append(courseIDs, bucket.Courses...)
	}
	if len(courseIDs) == 0 {
		return []models.Project{}, nil
	}
	projects, err := s.repo.ListByCourseIDs(ctx, dedup(courseIDs))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return projects, nil
}

// Submit stores or replaces the student's answer. Submissions close at the
// deadline and require the project's course to be registered.
func (s *ProjectService) Submit(ctx context.Context, student *models.Student, projectID string, req dto.SubmitProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !time.Now().UTC().Before(project.Deadline) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "the submission deadline has passed")
	}

	registered := false
	for _, bucket := range student.RegisteredCourses {
		if bucket.Courses.Contains(project.CourseID) {
			registered = true
			break
		}
	}
	if !registered {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not registered for this course")
	}

	project.Submissions = project.Submissions.Upsert(models.Submission{
		StudentID:   student.ID,
		Answer:      req.Answer,
		SubmittedAt: time.Now().UTC(),
	})
	if err := s.repo.UpdateSubmissions(ctx, project.ID, project.Submissions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store submission")
	}
	return project, nil
}

// Grade scores submissions on an owned project. Grading only opens once the
// deadline has passed, and submissions without a score entry stay
// untouched, so repeated partial grading is safe.
func (s *ProjectService) Grade(ctx context.Context, acting *models.Staff, projectID string, req dto.GradeProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading payload")
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy != acting.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not own this project")
	}
	if time.Now().UTC().Before(project.Deadline) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "grading opens after the deadline")
	}

	graded := 0
	for _, entry := range req.Scores {
		if project.Submissions.SetScore(entry.StudentID, entry.Score, entry.Comment) {
			graded++
		}
	}
	if graded == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no matching submissions to grade")
	}

	if err := s.repo.UpdateSubmissions(ctx, project.ID, project.Submissions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store grades")
	}
	return project, nil
}

func (s *ProjectService) findProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch project")
	}
	return project, nil
}
