package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type registrationCatalogRepository interface {
	FindDepartment(ctx context.Context, id string) (*models.Department, error)
	FindFaculty(ctx context.Context, id string) (*models.Faculty, error)
}

type registrationStudentRepository interface {
	UpdateRegisteredCourses(ctx context.Context, id string, buckets models.CourseBuckets) error
}

// RegistrationService registers students against the courses their
// department and faculty offer for (student.level, semester). Registration
// is scoped per (level, semester) so historical buckets survive level
// changes while the current one stays freely resettable.
type RegistrationService struct {
	students registrationStudentRepository
	catalog  registrationCatalogRepository
	courses  courseResolver
	logger   *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(students registrationStudentRepository, catalog registrationCatalogRepository, courses courseResolver, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{students: students, catalog: catalog, courses: courses, logger: logger}
}

// GetAvailable returns the union of the department and faculty buckets for
// (student.level, semester), each course tagged with the scope offering it.
func (s *RegistrationService) GetAvailable(ctx context.Context, student *models.Student, semester int) ([]models.AvailableCourse, error) {
	ids, scopes, err := s.availableIDs(ctx, student, semester)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.AvailableCourse{}, nil
	}

	courses, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve courses")
	}
	byID := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	available := make([]models.AvailableCourse, 0, len(ids))
	for _, id := range ids {
		course, ok := byID[id]
		if !ok {
			// stale reference in a bucket, skip rather than fail the listing
			s.logger.Warn("available bucket references unknown course", zap.String("course_id", id))
			continue
		}
		available = append(available, models.AvailableCourse{Course: course, Scope: scopes[id]})
	}
	return available, nil
}

// Register replaces the student's registration bucket for
// (student.level, semester) with the requested courses restricted to what
// is actually offered. The whole request is rejected when nothing requested
// is available; otherwise the previous bucket for that key is discarded.
func (s *RegistrationService) Register(ctx context.Context, student *models.Student, semester int, courseIDs []string) (*models.CourseBucket, error) {
	ids, _, err := s.availableIDs(ctx, student, semester)
	if err != nil {
		return nil, err
	}
	offered := make(map[string]bool, len(ids))
	for _, id := range ids {
		offered[id] = true
	}

	var registered models.StringList
	for _, id := range dedup(courseIDs) {
		if offered[id] {
			registered = append(registered, id)
		}
	}
	if len(registered) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "none of the requested courses are available for registration")
	}

	bucket := models.CourseBucket{Level: student.Level, Semester: semester, Courses: registered}
	student.RegisteredCourses = student.RegisteredCourses.Replace(bucket)

	if err := s.students.UpdateRegisteredCourses(ctx, student.ID, student.RegisteredCourses); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store registration")
	}
	return &bucket, nil
}

// Unregister removes the student's bucket for (student.level, semester).
// The bucket is matched by key, never by list position.
func (s *RegistrationService) Unregister(ctx context.Context, student *models.Student, semester int) error {
	if !models.ValidSemester(semester) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}

	buckets, existed := student.RegisteredCourses.Remove(models.BucketKey{Level: student.Level, Semester: semester})
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, "no registration for this semester")
	}
	student.RegisteredCourses = buckets

	if err := s.students.UpdateRegisteredCourses(ctx, student.ID, student.RegisteredCourses); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store registration")
	}
	return nil
}

// availableIDs collects the offered course ids for the student's key,
// department scope first. A course offered by both scopes counts as a
// department offering.
func (s *RegistrationService) availableIDs(ctx context.Context, student *models.Student, semester int) ([]string, map[string]models.AvailableCourseScope, error) {
	if !models.ValidSemester(semester) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	if student.DepartmentID == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "student is not attached to a department")
	}

	department, err := s.catalog.FindDepartment(ctx, *student.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}
	faculty, err := s.catalog.FindFaculty(ctx, department.FacultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch faculty")
	}

	key := models.BucketKey{Level: student.Level, Semester: semester}
	ids := []string{}
	scopes := map[string]models.AvailableCourseScope{}

	if bucket, ok := department.AvailableCourses.Find(key); ok {
		for _, id := range bucket.Courses {
			if _, seen := scopes[id]; !seen {
				scopes[id] = models.ScopeDepartment
				ids = append(ids, id)
			}
		}
	}
	if bucket, ok := faculty.AvailableCourses.Find(key); ok {
		for _, id := range bucket.Courses {
			if _, seen := scopes[id]; !seen {
				scopes[id] = models.ScopeFaculty
				ids = append(ids, id)
			}
		}
	}
	return ids, scopes, nil
}
