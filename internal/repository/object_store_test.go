package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

func newObjectStoreMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestObjectStoreFindByID(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	rows := sqlmock.NewRows([]string{"id", "name", "available_courses"}).
		AddRow([]byte("f1"), []byte("Science"), []byte(`[{"level":100,"semester":1,"courses":["c1"]}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM faculties WHERE id = $1")).
		WithArgs("f1").
		WillReturnRows(rows)

	row, err := store.FindByID(context.Background(), models.EntityFaculty, "f1")
	require.NoError(t, err)
	require.NotNil(t, row)

	// plain byte columns come back as strings, JSONB columns as raw JSON
	assert.Equal(t, "Science", row["name"])
	_, isRaw := row["available_courses"].(json.RawMessage)
	assert.True(t, isRaw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObjectStoreFindByIDAbsent(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := store.FindByID(context.Background(), models.EntityCourse, "missing")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestObjectStoreInsertStampsAndSortsColumns(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	// stamped columns join the caller's and everything binds in sorted order
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO courses (code, created_at, id, name, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING *")).
		WithArgs("CS101", sqlmock.AnyArg(), sqlmock.AnyArg(), "Intro", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}).AddRow([]byte("generated"), []byte("Intro"), []byte("CS101")))

	row, err := store.Insert(context.Background(), models.EntityCourse, map[string]interface{}{
		"name": "Intro",
		"code": "CS101",
	})
	require.NoError(t, err)
	assert.Equal(t, "Intro", row["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObjectStoreUpdateAbsentRow(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET name = $2, updated_at = $3 WHERE id = $1 RETURNING *")).
		WithArgs("missing", "X", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := store.Update(context.Background(), models.EntityCourse, "missing", map[string]interface{}{"name": "X"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestObjectStoreDelete(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculties WHERE id = $1")).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculties WHERE id = $1")).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	existed, err := store.Delete(context.Background(), models.EntityFaculty, "f1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(context.Background(), models.EntityFaculty, "f1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestObjectStoreInsertManyRecordsDuplicates(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	mock.ExpectQuery("INSERT INTO faculties").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow([]byte("f1"), []byte("Science")))
	mock.ExpectQuery("INSERT INTO faculties").
		WillReturnError(&pq.Error{Code: "23505", Detail: "Key (name)=(Science) already exists."})

	inserted, failed, err := store.InsertMany(context.Background(), models.EntityFaculty, []IndexedAttrs{
		{Index: 0, Attrs: map[string]interface{}{"name": "Science"}},
		{Index: 4, Attrs: map[string]interface{}{"name": "Science"}},
	}, 500)
	require.NoError(t, err)
	assert.Len(t, inserted, 1)
	require.Len(t, failed, 1)
	// the failure carries the caller's original index
	assert.Equal(t, 4, failed[0].Index)
	assert.Contains(t, failed[0].Reason, "Science")
}

func TestObjectStoreInsertManyAbortsOnOtherErrors(t *testing.T) {
	db, mock, cleanup := newObjectStoreMock(t)
	defer cleanup()
	store := NewObjectStore(db)

	mock.ExpectQuery("INSERT INTO faculties").
		WillReturnError(&pq.Error{Code: "53300", Message: "too many connections"})

	_, _, err := store.InsertMany(context.Background(), models.EntityFaculty, []IndexedAttrs{
		{Index: 0, Attrs: map[string]interface{}{"name": "Science"}},
	}, 500)
	require.Error(t, err)
}
