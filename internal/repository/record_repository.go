package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

const recordColumns = `id, course_id, year, status, entries, created_by, created_at, updated_at`

// RecordRepository manages persistence for result records.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// FindByID fetches a record by id.
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM records WHERE id = $1", recordColumns)
	var record models.Record
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByCreator returns the records owned by one staff member, newest
// first.
func (r *RecordRepository) ListByCreator(ctx context.Context, staffID string) ([]models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM records WHERE created_by = $1 ORDER BY created_at DESC", recordColumns)
	var records []models.Record
	if err := r.db.SelectContext(ctx, &records, query, staffID); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// UpdateStatus advances a record to the given approval stage.
func (r *RecordRepository) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	const query = `UPDATE records SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update record status: %w", err)
	}
	return nil
}
