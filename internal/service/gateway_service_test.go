package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/internal/repository"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type mockObjectStore struct {
	rows map[string]map[string]interface{}

	inserted     map[string]interface{}
	updated      map[string]interface{}
	deletedID    string
	insertedMany []repository.IndexedAttrs
	manyFailed   []models.InsertFailure

	findErr   error
	insertErr error
	updateErr error
	deleteErr error
	manyErr   error
}

func (m *mockObjectStore) FindByID(ctx context.Context, t models.EntityType, id string) (map[string]interface{}, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.rows[id], nil
}

func (m *mockObjectStore) Insert(ctx context.Context, t models.EntityType, attrs map[string]interface{}) (map[string]interface{}, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.inserted = attrs
	return attrs, nil
}

func (m *mockObjectStore) Update(ctx context.Context, t models.EntityType, id string, attrs map[string]interface{}) (map[string]interface{}, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.updated = attrs
	return attrs, nil
}

func (m *mockObjectStore) Delete(ctx context.Context, t models.EntityType, id string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	m.deletedID = id
	_, ok := m.rows[id]
	return ok || m.rows == nil, nil
}

func (m *mockObjectStore) InsertMany(ctx context.Context, t models.EntityType, elements []repository.IndexedAttrs, batchSize int) ([]map[string]interface{}, []models.InsertFailure, error) {
	if m.manyErr != nil {
		return nil, nil, m.manyErr
	}
	m.insertedMany = elements
	rows := make([]map[string]interface{}, 0, len(elements))
	for _, el := range elements {
		rows = append(rows, el.Attrs)
	}
	return rows, m.manyFailed, nil
}

func adminStaff() *models.Staff {
	return &models.Staff{
		ID:         "s-admin",
		Role:       models.RoleAdmin,
		Privileges: models.DerivePrivileges(models.RoleAdmin),
	}
}

func lecturerStaff(courses ...string) *models.Staff {
	return &models.Staff{
		ID:              "s-lect",
		Role:            models.RoleLecturer,
		Privileges:      models.DerivePrivileges(models.RoleLecturer),
		AssignedCourses: models.StringList(courses),
	}
}

func TestGatewayGetUnknownType(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.Get(context.Background(), models.EntityType("invoice"), "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGatewayGetNotFound(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.Get(context.Background(), models.EntityCourse, "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGatewayCreateNewStripsSystemColumns(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	_, err := svc.CreateNew(context.Background(), adminStaff(), models.EntityCourse, map[string]interface{}{
		"name":       "Algorithms",
		"code":       "CS201",
		"id":         "attacker",
		"created_at": "2020-01-01",
	})
	require.NoError(t, err)
	assert.NotContains(t, store.inserted, "id")
	assert.NotContains(t, store.inserted, "created_at")
	assert.Equal(t, "Algorithms", store.inserted["name"])
}

func TestGatewayCreateNewRequiresPrivilege(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.CreateNew(context.Background(), lecturerStaff(), models.EntityCourse, map[string]interface{}{"name": "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayCreateNewStaffDerivesPrivileges(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	// supplied privileges must be discarded and rederived from the role
	_, err := svc.CreateNew(context.Background(), adminStaff(), models.EntityStaff, map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Okafor",
		"email":      "ada@x.test",
		"staff_id":   "ST01",
		"role":       "HOD",
		"privileges": map[string]interface{}{"deleteExisting": true},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DerivePrivileges(models.RoleHOD), store.inserted["privileges"])
}

func TestGatewayCreateNewStaffRoleCeiling(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)
	acting := adminStaff()

	_, err := svc.CreateNew(context.Background(), acting, models.EntityStaff, map[string]interface{}{
		"first_name": "Ada", "email": "ada@x.test", "role": "SuperAdmin",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayCreateNewStaffRoleRequired(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.CreateNew(context.Background(), adminStaff(), models.EntityStaff, map[string]interface{}{
		"first_name": "Ada", "email": "ada@x.test",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGatewayCreateNewProjectRequiresAssignedCourse(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	_, err := svc.CreateNew(context.Background(), lecturerStaff("c-other"), models.EntityProject, map[string]interface{}{
		"name": "Thesis", "course_id": "c-1", "year": 2026,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateNew(context.Background(), lecturerStaff("c-1"), models.EntityProject, map[string]interface{}{
		"name": "Thesis", "course_id": "c-1", "year": 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, "s-lect", store.inserted["created_by"])
}

func TestGatewayUpdateExistingOwnerOnly(t *testing.T) {
	store := &mockObjectStore{rows: map[string]map[string]interface{}{
		"r1": {"id": "r1", "created_by": "someone-else", "status": "pending"},
	}}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	_, err := svc.UpdateExisting(context.Background(), lecturerStaff("c-1"), models.EntityRecord, "r1", map[string]interface{}{"year": 2026})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayUpdateExistingApprovedRecordIsTerminal(t *testing.T) {
	store := &mockObjectStore{rows: map[string]map[string]interface{}{
		"r1": {"id": "r1", "created_by": "s-lect", "status": "approved"},
	}}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	_, err := svc.UpdateExisting(context.Background(), lecturerStaff("c-1"), models.EntityRecord, "r1", map[string]interface{}{"year": 2026})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGatewayUpdateExistingSelfUpdateRejected(t *testing.T) {
	acting := adminStaff()
	store := &mockObjectStore{rows: map[string]map[string]interface{}{
		acting.ID: {"id": acting.ID},
	}}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	_, err := svc.UpdateExisting(context.Background(), acting, models.EntityStaff, acting.ID, map[string]interface{}{"first_name": "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayUpdateExistingNotFound(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.UpdateExisting(context.Background(), adminStaff(), models.EntityCourse, "missing", map[string]interface{}{"name": "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGatewayDeleteExistingRequiresPrivilege(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	err := svc.DeleteExisting(context.Background(), adminStaff(), models.EntityCourse, "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayDeleteExistingOwnProject(t *testing.T) {
	store := &mockObjectStore{rows: map[string]map[string]interface{}{
		"p1": {"id": "p1", "created_by": "s-lect"},
		"p2": {"id": "p2", "created_by": "someone-else"},
	}}
	svc := NewGatewayService(store, zap.NewNop(), 0)
	acting := lecturerStaff("c-1")

	require.NoError(t, svc.DeleteExisting(context.Background(), acting, models.EntityProject, "p1"))
	assert.Equal(t, "p1", store.deletedID)

	err := svc.DeleteExisting(context.Background(), acting, models.EntityProject, "p2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayDeleteExistingSuperAdmin(t *testing.T) {
	store := &mockObjectStore{rows: map[string]map[string]interface{}{"c1": {"id": "c1"}}}
	svc := NewGatewayService(store, zap.NewNop(), 0)
	acting := &models.Staff{ID: "s-root", Role: models.RoleSuperAdmin, Privileges: models.DerivePrivileges(models.RoleSuperAdmin)}

	require.NoError(t, svc.DeleteExisting(context.Background(), acting, models.EntityCourse, "c1"))
}

func TestGatewayCreateManyPartialFailure(t *testing.T) {
	store := &mockObjectStore{manyFailed: []models.InsertFailure{{Index: 2, Reason: "duplicate key"}}}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	items := []interface{}{
		map[string]interface{}{"name": "A", "code": "C1"},
		"not an object",
		map[string]interface{}{"name": "B", "code": "C2"},
	}
	res, err := svc.CreateMany(context.Background(), adminStaff(), models.EntityCourse, items)
	require.NoError(t, err)

	// the malformed element fails by its original index, the store failure
	// keeps its own index, and failures come back sorted
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, 2, res.Failed[1].Index)

	require.Len(t, store.insertedMany, 2)
	assert.Equal(t, 0, store.insertedMany[0].Index)
	assert.Equal(t, 2, store.insertedMany[1].Index)
}

func TestGatewayCreateManyRequiresPrivilege(t *testing.T) {
	svc := NewGatewayService(&mockObjectStore{}, zap.NewNop(), 0)

	_, err := svc.CreateMany(context.Background(), lecturerStaff(), models.EntityCourse, []interface{}{map[string]interface{}{"name": "A"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGatewayCreateManyStaffRoleCeilingPerElement(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewGatewayService(store, zap.NewNop(), 0)

	items := []interface{}{
		map[string]interface{}{"first_name": "A", "email": "a@x.test", "staff_id": "S1", "role": "Lecturer"},
		map[string]interface{}{"first_name": "B", "email": "b@x.test", "staff_id": "S2", "role": "SuperAdmin"},
	}
	res, err := svc.CreateMany(context.Background(), adminStaff(), models.EntityStaff, items)
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
	require.Len(t, store.insertedMany, 1)
	assert.Equal(t, models.DerivePrivileges(models.RoleLecturer), store.insertedMany[0].Attrs["privileges"])
}

func TestGatewayCreateManyStampsOwner(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewGatewayService(store, zap.NewNop(), 0)
	acting := &models.Staff{ID: "s-root", Role: models.RoleSuperAdmin, Privileges: models.DerivePrivileges(models.RoleSuperAdmin)}

	_, err := svc.CreateMany(context.Background(), acting, models.EntityRecord, []interface{}{
		map[string]interface{}{"course_id": "c1", "year": 2026},
	})
	require.NoError(t, err)
	require.Len(t, store.insertedMany, 1)
	assert.Equal(t, "s-root", store.insertedMany[0].Attrs["created_by"])
}
