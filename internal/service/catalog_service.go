package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type catalogStore interface {
	AvailableCourses(ctx context.Context, kind models.CatalogOwnerKind, id string) (models.CourseBuckets, error)
	UpdateAvailableCourses(ctx context.Context, kind models.CatalogOwnerKind, id string, buckets models.CourseBuckets) error
}

type courseResolver interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

// CatalogService maintains the per-(level, semester) available-course
// buckets on departments and faculties. Buckets behave as a map keyed by
// (level, semester); the list shape only exists at the storage boundary.
type CatalogService struct {
	store   catalogStore
	courses courseResolver
	logger  *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(store catalogStore, courses courseResolver, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, courses: courses, logger: logger}
}

// AvailableCourses reads the owner's bucket list.
func (s *CatalogService) AvailableCourses(ctx context.Context, kind models.CatalogOwnerKind, ownerID string) (models.CourseBuckets, error) {
	buckets, err := s.loadBuckets(ctx, kind, ownerID)
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// SetAvailableCourses resolves the course references, groups them by their
// own (level, semester) and replaces the owner's bucket for each key. The
// replacement is whole-bucket per key, never a merge.
func (s *CatalogService) SetAvailableCourses(ctx context.Context, acting *models.Staff, kind models.CatalogOwnerKind, ownerID string, courseIDs []string) (models.CourseBuckets, error) {
	if !acting.Privileges.SetCourses {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to set available courses")
	}

	ids := dedup(courseIDs)
	courses, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve courses")
	}
	if len(courses) != len(ids) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "one or more course references are unknown")
	}

	grouped := map[models.BucketKey]models.StringList{}
	order := []models.BucketKey{}
	for _, course := range courses {
		key := models.BucketKey{Level: course.Level, Semester: course.Semester}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], course.ID)
	}

	buckets, err := s.loadBuckets(ctx, kind, ownerID)
	if err != nil {
		return nil, err
	}
	for _, key := range order {
		buckets = buckets.Replace(models.CourseBucket{
			Level:    key.Level,
			Semester: key.Semester,
			Courses:  grouped[key],
		})
	}

	if err := s.store.UpdateAvailableCourses(ctx, kind, ownerID, buckets); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store available courses")
	}
	return buckets, nil
}

// UnsetAvailableCourses removes the buckets addressed by keys. Removal is
// key-based, so the outcome never depends on bucket positions. A key with
// no bucket is a per-key no-op; a call that removes nothing is reported.
func (s *CatalogService) UnsetAvailableCourses(ctx context.Context, acting *models.Staff, kind models.CatalogOwnerKind, ownerID string, keys []models.BucketKey) (models.CourseBuckets, error) {
	if !acting.Privileges.SetCourses {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to unset available courses")
	}

	buckets, err := s.loadBuckets(ctx, kind, ownerID)
	if err != nil {
		return nil, err
	}

	buckets, removed := buckets.RemoveKeys(keys)
	if removed == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no action occurred")
	}

	if err := s.store.UpdateAvailableCourses(ctx, kind, ownerID, buckets); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store available courses")
	}
	return buckets, nil
}

func (s *CatalogService) loadBuckets(ctx context.Context, kind models.CatalogOwnerKind, ownerID string) (models.CourseBuckets, error) {
	buckets, err := s.store.AvailableCourses(ctx, kind, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, string(kind)+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch available courses")
	}
	return buckets, nil
}

// dedup keeps the first occurrence of each id, preserving order.
func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
