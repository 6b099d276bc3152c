package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type mockStaffRepo struct {
	target     *models.Staff
	findErr    error
	assignment models.StringList
	updated    bool
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.target, nil
}

func (m *mockStaffRepo) UpdateAssignedCourses(ctx context.Context, id string, courses models.StringList) error {
	m.assignment = courses
	m.updated = true
	return nil
}

type mockStaffCourses struct {
	courses []models.CourseWithFaculty
}

func (m *mockStaffCourses) FindByIDsWithFaculty(ctx context.Context, ids []string) ([]models.CourseWithFaculty, error) {
	return m.courses, nil
}

type mockStaffCatalog struct {
	department *models.Department
}

func (m *mockStaffCatalog) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	if m.department == nil {
		return nil, sql.ErrNoRows
	}
	return m.department, nil
}

func assignFixture() (*mockStaffRepo, *mockStaffCourses, *mockStaffCatalog) {
	deptID := "d1"
	repo := &mockStaffRepo{target: &models.Staff{ID: "s-target", Role: models.RoleLecturer, DepartmentID: &deptID}}
	courses := &mockStaffCourses{courses: []models.CourseWithFaculty{
		{Course: models.Course{ID: "c1", Level: 100, Semester: 1}, FacultyID: "f1"},
		{Course: models.Course{ID: "c2", Level: 100, Semester: 1}, FacultyID: "f-other"},
	}}
	catalog := &mockStaffCatalog{department: &models.Department{ID: "d1", FacultyID: "f1"}}
	return repo, courses, catalog
}

func TestStaffAssignCourses(t *testing.T) {
	repo, courses, catalog := assignFixture()
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	target, err := svc.AssignCourses(context.Background(), hodStaff(), dto.AssignCoursesRequest{
		StaffID: "s-target", CourseIDs: []string{"c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"c1"}, target.AssignedCourses)
	assert.Equal(t, models.StringList{"c1"}, repo.assignment)
}

func TestStaffAssignCoursesRequiresPrivilege(t *testing.T) {
	repo, courses, catalog := assignFixture()
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	_, err := svc.AssignCourses(context.Background(), lecturerStaff(), dto.AssignCoursesRequest{
		StaffID: "s-target", CourseIDs: []string{"c1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestStaffAssignCoursesRejectsForeignFaculty(t *testing.T) {
	repo, courses, catalog := assignFixture()
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	_, err := svc.AssignCourses(context.Background(), hodStaff(), dto.AssignCoursesRequest{
		StaffID: "s-target", CourseIDs: []string{"c1", "c2"},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "[1]")
	assert.False(t, repo.updated)
}

func TestStaffAssignCoursesRejectsUnknown(t *testing.T) {
	repo, courses, catalog := assignFixture()
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	_, err := svc.AssignCourses(context.Background(), hodStaff(), dto.AssignCoursesRequest{
		StaffID: "s-target", CourseIDs: []string{"c-ghost"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStaffAssignCoursesEmptyListClears(t *testing.T) {
	repo, courses, catalog := assignFixture()
	repo.target.AssignedCourses = models.StringList{"c1"}
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	target, err := svc.AssignCourses(context.Background(), hodStaff(), dto.AssignCoursesRequest{StaffID: "s-target"})
	require.NoError(t, err)
	assert.Empty(t, target.AssignedCourses)
	assert.True(t, repo.updated)
}

func TestStaffAssignCoursesUnknownStaff(t *testing.T) {
	repo, courses, catalog := assignFixture()
	repo.findErr = sql.ErrNoRows
	svc := NewStaffService(repo, courses, catalog, nil, zap.NewNop())

	_, err := svc.AssignCourses(context.Background(), hodStaff(), dto.AssignCoursesRequest{
		StaffID: "missing", CourseIDs: []string{"c1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
