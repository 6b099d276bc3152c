package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type recordRepository interface {
	FindByID(ctx context.Context, id string) (*models.Record, error)
	ListByCreator(ctx context.Context, staffID string) ([]models.Record, error)
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
}

// RecordService advances result records through the two-stage approval
// workflow pending -> HOD -> approved. Approved is terminal; the progression
// is strictly monotonic.
type RecordService struct {
	repo   recordRepository
	logger *zap.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(repo recordRepository, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{repo: repo, logger: logger}
}

// ListMine returns the records created by the acting staff.
func (s *RecordService) ListMine(ctx context.Context, acting *models.Staff) ([]models.Record, error) {
	records, err := s.repo.ListByCreator(ctx, acting.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return records, nil
}

// Approve advances a record one stage. The HOD stage must complete before
// any higher role approves, no role approves the same record twice, and an
// approved record never moves again.
func (s *RecordService) Approve(ctx context.Context, acting *models.Staff, recordID string) (*models.Record, error) {
	if !acting.Privileges.ApproveResult {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to approve records")
	}

	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch record")
	}

	if record.Status == models.RecordStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record is already approved")
	}
	if string(record.Status) == string(acting.Role) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record was already approved at your stage")
	}
	if record.Status == models.RecordStatusPending && acting.Role != models.RoleHOD {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "record must be approved by the HOD first")
	}

	next, ok := models.NextRecordStatus(record.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record cannot advance further")
	}
	if err := s.repo.UpdateStatus(ctx, record.ID, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store approval")
	}
	record.Status = next
	return record, nil
}
