package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type staffRepository interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	UpdateAssignedCourses(ctx context.Context, id string, courses models.StringList) error
}

type staffCourseRepository interface {
	FindByIDsWithFaculty(ctx context.Context, ids []string) ([]models.CourseWithFaculty, error)
}

type staffCatalogRepository interface {
	FindDepartment(ctx context.Context, id string) (*models.Department, error)
}

// StaffService manages the course assignments that authorize lecturers to
// create projects and records.
type StaffService struct {
	staff     staffRepository
	courses   staffCourseRepository
	catalog   staffCatalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(staff staffRepository, courses staffCourseRepository, catalog staffCatalogRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StaffService{staff: staff, courses: courses, catalog: catalog, validator: validate, logger: logger}
}

// AssignCourses overwrites a staff member's course assignment. Courses must
// belong to the target's faculty; an empty list clears the assignment.
func (s *StaffService) AssignCourses(ctx context.Context, acting *models.Staff, req dto.AssignCoursesRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if !acting.Privileges.AssignCourse {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to assign courses")
	}

	target, err := s.staff.FindByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch staff")
	}

	ids := dedup(req.CourseIDs)
	if len(ids) == 0 {
		if err := s.staff.UpdateAssignedCourses(ctx, target.ID, models.StringList{}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
		}
		target.AssignedCourses = models.StringList{}
		return target, nil
	}

	if target.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "staff is not attached to a department")
	}
	department, err := s.catalog.FindDepartment(ctx, *target.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}

	courses, err := s.courses.FindByIDsWithFaculty(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve courses")
	}
	byID := make(map[string]models.CourseWithFaculty, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	var rejected []int
	for i, id := range ids {
		course, ok := byID[id]
		if !ok || course.FacultyID != department.FacultyID {
			rejected = append(rejected, i)
		}
	}
	if len(rejected) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("courses at positions %v are unknown or outside the staff faculty", rejected))
	}

	assignment := models.StringList(ids)
	if err := s.staff.UpdateAssignedCourses(ctx, target.ID, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
	}
	target.AssignedCourses = assignment
	return target, nil
}
