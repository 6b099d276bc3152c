package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type mockProjectRepo struct {
	project     *models.Project
	byCourse    []models.Project
	courseIDs   []string
	submissions models.Submissions
	findErr     error
	updateErr   error
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.project, nil
}

func (m *mockProjectRepo) ListByCreator(ctx context.Context, staffID string) ([]models.Project, error) {
	if m.project == nil {
		return []models.Project{}, nil
	}
	return []models.Project{*m.project}, nil
}

func (m *mockProjectRepo) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Project, error) {
	m.courseIDs = courseIDs
	return m.byCourse, nil
}

func (m *mockProjectRepo) UpdateSubmissions(ctx context.Context, id string, submissions models.Submissions) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.submissions = submissions
	return nil
}

func registeredStudent(courseID string) *models.Student {
	return &models.Student{
		ID:    "st-1",
		Level: 200,
		RegisteredCourses: models.CourseBuckets{
			{Level: 200, Semester: 1, Courses: models.StringList{courseID}},
		},
	}
}

func TestProjectSubmitBeforeDeadline(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", Deadline: time.Now().UTC().Add(time.Hour),
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	project, err := svc.Submit(context.Background(), registeredStudent("c1"), "p1", dto.SubmitProjectRequest{Answer: "my answer"})
	require.NoError(t, err)
	require.Len(t, project.Submissions, 1)
	assert.Equal(t, "st-1", project.Submissions[0].StudentID)
	assert.Equal(t, "my answer", project.Submissions[0].Answer)
	assert.Len(t, repo.submissions, 1)
}

func TestProjectSubmitReplacesPrevious(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", Deadline: time.Now().UTC().Add(time.Hour),
		Submissions: models.Submissions{{StudentID: "st-1", Answer: "first"}},
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	project, err := svc.Submit(context.Background(), registeredStudent("c1"), "p1", dto.SubmitProjectRequest{Answer: "second"})
	require.NoError(t, err)
	require.Len(t, project.Submissions, 1)
	assert.Equal(t, "second", project.Submissions[0].Answer)
}

func TestProjectSubmitAfterDeadline(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", Deadline: time.Now().UTC().Add(-time.Minute),
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), registeredStudent("c1"), "p1", dto.SubmitProjectRequest{Answer: "late"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestProjectSubmitRequiresRegistration(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", Deadline: time.Now().UTC().Add(time.Hour),
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), registeredStudent("c-other"), "p1", dto.SubmitProjectRequest{Answer: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestProjectGradeBeforeDeadline(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", CreatedBy: "s-lect", Deadline: time.Now().UTC().Add(time.Hour),
		Submissions: models.Submissions{{StudentID: "st-1", Answer: "a"}},
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	_, err := svc.Grade(context.Background(), lecturerStaff("c1"), "p1", dto.GradeProjectRequest{
		Scores: []dto.ScoreEntry{{StudentID: "st-1", Score: 80}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestProjectGradePartial(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CourseID: "c1", CreatedBy: "s-lect", Deadline: time.Now().UTC().Add(-time.Hour),
		Submissions: models.Submissions{
			{StudentID: "st-1", Answer: "a"},
			{StudentID: "st-2", Answer: "b"},
		},
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	project, err := svc.Grade(context.Background(), lecturerStaff("c1"), "p1", dto.GradeProjectRequest{
		Scores: []dto.ScoreEntry{{StudentID: "st-1", Score: 80}},
	})
	require.NoError(t, err)

	require.NotNil(t, project.Submissions[0].Score)
	assert.Equal(t, float64(80), *project.Submissions[0].Score)
	// the ungraded submission stays untouched
	assert.Nil(t, project.Submissions[1].Score)
}

func TestProjectGradeOwnerOnly(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CreatedBy: "someone-else", Deadline: time.Now().UTC().Add(-time.Hour),
		Submissions: models.Submissions{{StudentID: "st-1", Answer: "a"}},
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	_, err := svc.Grade(context.Background(), lecturerStaff("c1"), "p1", dto.GradeProjectRequest{
		Scores: []dto.ScoreEntry{{StudentID: "st-1", Score: 80}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestProjectGradeNoMatchingSubmissions(t *testing.T) {
	repo := &mockProjectRepo{project: &models.Project{
		ID: "p1", CreatedBy: "s-lect", Deadline: time.Now().UTC().Add(-time.Hour),
	}}
	svc := NewProjectService(repo, nil, zap.NewNop())

	_, err := svc.Grade(context.Background(), lecturerStaff("c1"), "p1", dto.GradeProjectRequest{
		Scores: []dto.ScoreEntry{{StudentID: "st-unknown", Score: 80}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProjectListForStudentDedupesCourses(t *testing.T) {
	repo := &mockProjectRepo{}
	svc := NewProjectService(repo, nil, zap.NewNop())

	student := &models.Student{ID: "st-1", RegisteredCourses: models.CourseBuckets{
		{Level: 100, Semester: 1, Courses: models.StringList{"c1", "c2"}},
		{Level: 100, Semester: 2, Courses: models.StringList{"c2", "c3"}},
	}}

	_, err := svc.ListForStudent(context.Background(), student)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, repo.courseIDs)
}

func TestProjectListForStudentNoRegistrations(t *testing.T) {
	repo := &mockProjectRepo{}
	svc := NewProjectService(repo, nil, zap.NewNop())

	projects, err := svc.ListForStudent(context.Background(), &models.Student{ID: "st-1"})
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.Nil(t, repo.courseIDs)
}
