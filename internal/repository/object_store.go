package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/database"
)

// IndexedAttrs pairs a bulk-insert element with its index in the caller's
// original list so partial failures stay addressable.
type IndexedAttrs struct {
	Index int
	Attrs map[string]interface{}
}

// ObjectStore is the polymorphic persistence surface behind the object
// gateway. It works on attribute maps so a single implementation serves
// every registered entity type; column whitelisting happens upstream.
type ObjectStore struct {
	db *sqlx.DB
}

// NewObjectStore constructs an ObjectStore.
func NewObjectStore(db *sqlx.DB) *ObjectStore {
	return &ObjectStore{db: db}
}

// FindByID fetches one row as an attribute map. An absent row returns
// (nil, nil).
func (s *ObjectStore) FindByID(ctx context.Context, t models.EntityType, id string) (map[string]interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", t.Table())
	rows, err := s.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find %s: %w", t, err)
		}
		return nil, nil
	}
	row := map[string]interface{}{}
	if err := rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t, err)
	}
	return normalizeRow(t, row), nil
}

// Insert persists a new row from attrs and returns the stored row. The id
// and timestamps are stamped here; duplicate-key violations surface as pq
// errors for the caller to classify.
func (s *ObjectStore) Insert(ctx context.Context, t models.EntityType, attrs map[string]interface{}) (map[string]interface{}, error) {
	attrs = stampNew(attrs)

	cols := sortedColumns(attrs)
	placeholders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		value, err := bindValue(t, col, attrs[col])
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		t.Table(), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	return s.queryRow(ctx, t, query, args...)
}

// Update applies attrs onto the row identified by id and returns the stored
// row. An absent row returns (nil, nil).
func (s *ObjectStore) Update(ctx context.Context, t models.EntityType, id string, attrs map[string]interface{}) (map[string]interface{}, error) {
	attrs["updated_at"] = time.Now().UTC()

	cols := sortedColumns(attrs)
	assignments := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	args = append(args, id)
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
		value, err := bindValue(t, col, attrs[col])
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING *",
		t.Table(), strings.Join(assignments, ", "))

	return s.queryRow(ctx, t, query, args...)
}

// Delete removes the row identified by id, reporting whether one existed.
func (s *ObjectStore) Delete(ctx context.Context, t models.EntityType, id string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Table())
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", t, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", t, err)
	}
	return affected > 0, nil
}

// InsertMany inserts the given elements unordered in batches of at most
// batchSize rows. Duplicate-key violations are recorded per element against
// the caller's original index and never abort the run; any other storage
// failure does.
func (s *ObjectStore) InsertMany(ctx context.Context, t models.EntityType, elements []IndexedAttrs, batchSize int) ([]map[string]interface{}, []models.InsertFailure, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	inserted := make([]map[string]interface{}, 0, len(elements))
	var failed []models.InsertFailure

	for start := 0; start < len(elements); start += batchSize {
		end := start + batchSize
		if end > len(elements) {
			end = len(elements)
		}
		for _, element := range elements[start:end] {
			row, err := s.Insert(ctx, t, element.Attrs)
			if err != nil {
				if database.IsUniqueViolation(err) {
					failed = append(failed, models.InsertFailure{
						Index:  element.Index,
						Reason: database.UniqueViolationDetail(err),
					})
					continue
				}
				return inserted, failed, err
			}
			inserted = append(inserted, row)
		}
	}

	return inserted, failed, nil
}

func (s *ObjectStore) queryRow(ctx context.Context, t models.EntityType, query string, args ...interface{}) (map[string]interface{}, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", t, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("write %s: %w", t, err)
		}
		return nil, nil
	}
	row := map[string]interface{}{}
	if err := rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t, err)
	}
	return normalizeRow(t, row), nil
}

func stampNew(attrs map[string]interface{}) map[string]interface{} {
	now := time.Now().UTC()
	out := make(map[string]interface{}, len(attrs)+3)
	for k, v := range attrs {
		out[k] = v
	}
	out["id"] = uuid.NewString()
	out["created_at"] = now
	out["updated_at"] = now
	return out
}

func sortedColumns(attrs map[string]interface{}) []string {
	cols := make([]string, 0, len(attrs))
	for col := range attrs {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// bindValue prepares an attribute value for binding. JSONB columns carrying
// plain decoded values are marshalled; values that already know how to bind
// themselves pass through.
func bindValue(t models.EntityType, col string, value interface{}) (interface{}, error) {
	if value == nil || !t.IsJSONColumn(col) {
		return value, nil
	}
	if _, ok := value.(driver.Valuer); ok {
		return value, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s.%s: %w", t, col, err)
	}
	return data, nil
}

// normalizeRow makes MapScan output JSON-friendly: JSONB payloads become
// raw JSON, remaining byte slices become strings.
func normalizeRow(t models.EntityType, row map[string]interface{}) map[string]interface{} {
	for col, value := range row {
		raw, ok := value.([]byte)
		if !ok {
			continue
		}
		if t.IsJSONColumn(col) {
			row[col] = json.RawMessage(raw)
			continue
		}
		row[col] = string(raw)
	}
	return row
}
