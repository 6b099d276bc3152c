package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/internal/repository"
	"github.com/schoolpilot/schoolpilot-api/pkg/database"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type gatewayObjectStore interface {
	FindByID(ctx context.Context, t models.EntityType, id string) (map[string]interface{}, error)
	Insert(ctx context.Context, t models.EntityType, attrs map[string]interface{}) (map[string]interface{}, error)
	Update(ctx context.Context, t models.EntityType, id string, attrs map[string]interface{}) (map[string]interface{}, error)
	Delete(ctx context.Context, t models.EntityType, id string) (bool, error)
	InsertMany(ctx context.Context, t models.EntityType, elements []repository.IndexedAttrs, batchSize int) ([]map[string]interface{}, []models.InsertFailure, error)
}

// GatewayService is the single polymorphic write surface over the
// registered entity types. Every mutation passes the immutable-field guard;
// authorization is either the acting staff's privilege flags or, for
// projects and records, course assignment and ownership.
type GatewayService struct {
	store     gatewayObjectStore
	logger    *zap.Logger
	batchSize int
}

// NewGatewayService constructs a GatewayService.
func NewGatewayService(store gatewayObjectStore, logger *zap.Logger, batchSize int) *GatewayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &GatewayService{store: store, logger: logger, batchSize: batchSize}
}

// Get fetches one entity by id.
func (s *GatewayService) Get(ctx context.Context, t models.EntityType, id string) (map[string]interface{}, error) {
	if !t.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	row, err := s.store.FindByID(ctx, t, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch entity")
	}
	if row == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t))
	}
	return row, nil
}

// CreateNew persists one entity on behalf of the acting staff. For projects
// and records, course assignment is the authorization and the generic
// privilege check is bypassed.
func (s *GatewayService) CreateNew(ctx context.Context, acting *models.Staff, t models.EntityType, attrs map[string]interface{}) (map[string]interface{}, error) {
	if !t.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	attrs = t.StripImmutable(attrs)

	if t.OwnerAuthorized() {
		if err := s.authorizeCourseWrite(acting, attrs); err != nil {
			return nil, err
		}
		attrs["created_by"] = acting.ID
	} else {
		if !acting.Privileges.CreateNew {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to create records")
		}
		if t == models.EntityStaff {
			if err := applyStaffRole(acting, attrs, true); err != nil {
				return nil, err
			}
		}
	}

	row, err := s.store.Insert(ctx, t, attrs)
	if err != nil {
		return nil, s.classifyWriteError(err, "failed to create entity")
	}
	return row, nil
}

// UpdateExisting merges attrs onto the entity identified by id. Projects
// and records are writable only by their creator; records become immutable
// once approved. Staff may not update themselves through this surface.
func (s *GatewayService) UpdateExisting(ctx context.Context, acting *models.Staff, t models.EntityType, id string, attrs map[string]interface{}) (map[string]interface{}, error) {
	if !t.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	target, err := s.store.FindByID(ctx, t, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch entity")
	}
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t))
	}

	if t.OwnerAuthorized() {
		if rowString(target, "created_by") != acting.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not own this record")
		}
		if t == models.EntityRecord && rowString(target, "status") == string(models.RecordStatusApproved) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "record is already approved")
		}
	} else {
		if !acting.Privileges.CreateNew {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to update records")
		}
	}

	attrs = t.StripImmutable(attrs)

	if t == models.EntityStaff {
		if id == acting.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "use the profile endpoint to update your own account")
		}
		if err := applyStaffRole(acting, attrs, false); err != nil {
			return nil, err
		}
	}

	row, err := s.store.Update(ctx, t, id, attrs)
	if err != nil {
		return nil, s.classifyWriteError(err, "failed to update entity")
	}
	if row == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t))
	}
	return row, nil
}

// DeleteExisting removes one entity. Without the delete privilege the only
// permitted case is a project deleted by its own creator.
func (s *GatewayService) DeleteExisting(ctx context.Context, acting *models.Staff, t models.EntityType, id string) error {
	if !t.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}

	if !acting.Privileges.DeleteExisting {
		if t != models.EntityProject {
			return appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to delete records")
		}
		target, err := s.store.FindByID(ctx, t, id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch entity")
		}
		if target == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		if rowString(target, "created_by") != acting.ID {
			return appErrors.Clone(appErrors.ErrForbidden, "you do not own this project")
		}
	}

	existed, err := s.store.Delete(ctx, t, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete entity")
	}
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t))
	}
	return nil
}

// CreateMany bulk-inserts entities with partial-failure semantics. Invalid
// elements are recorded by index and never abort the batch; rows are
// inserted unordered in bounded batches and duplicate-key violations are
// reported per row. Only storage-level outages abort the run.
func (s *GatewayService) CreateMany(ctx context.Context, acting *models.Staff, t models.EntityType, items []interface{}) (*models.BulkResult, error) {
	if !t.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	if !acting.Privileges.CreateMany {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to bulk-create records")
	}

	elements := make([]repository.IndexedAttrs, 0, len(items))
	var failed []models.InsertFailure
	for i, raw := range items {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			failed = append(failed, models.InsertFailure{Index: i, Reason: "element is not an object"})
			continue
		}
		attrs := t.StripImmutable(obj)
		if t.HasCreatedBy() {
			attrs["created_by"] = acting.ID
		}
		if t == models.EntityStaff {
			if err := applyStaffRole(acting, attrs, true); err != nil {
				failed = append(failed, models.InsertFailure{Index: i, Reason: appErrors.FromError(err).Message})
				continue
			}
		}
		elements = append(elements, repository.IndexedAttrs{Index: i, Attrs: attrs})
	}

	inserted, storeFailed, err := s.store.InsertMany(ctx, t, elements, s.batchSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk insert aborted")
	}
	failed = append(failed, storeFailed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })

	return &models.BulkResult{Inserted: inserted, Failed: failed}, nil
}

// authorizeCourseWrite checks that the referenced course is assigned to the
// acting staff.
func (s *GatewayService) authorizeCourseWrite(acting *models.Staff, attrs map[string]interface{}) error {
	courseID, _ := attrs["course_id"].(string)
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course reference is required")
	}
	if !acting.AssignedCourses.Contains(courseID) {
		return appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to you")
	}
	return nil
}

func (s *GatewayService) classifyWriteError(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, database.UniqueViolationDetail(err))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// applyStaffRole enforces the role ceiling on staff writes and rederives
// the privilege set, discarding whatever the caller supplied. Privileges and
// role must never diverge.
func applyStaffRole(acting *models.Staff, attrs map[string]interface{}, required bool) error {
	raw, present := attrs["role"]
	if !present {
		if required {
			return appErrors.Clone(appErrors.ErrValidation, "role is required")
		}
		return nil
	}
	roleStr, ok := raw.(string)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "role must be a string")
	}
	role := models.Role(roleStr)
	if !models.ValidRole(role) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	if !role.AtOrBelow(acting.Role) {
		return appErrors.Clone(appErrors.ErrForbidden,
			fmt.Sprintf("role must be your level (%s) or lower", acting.Role))
	}
	attrs["privileges"] = models.DerivePrivileges(role)
	return nil
}

func rowString(row map[string]interface{}, col string) string {
	v, _ := row[col].(string)
	return v
}
