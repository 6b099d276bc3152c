package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/database"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type scheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ScheduleService manages personal calendar entries. Entries are private to
// the account that created them.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// List returns the owner's entries inside [from, to), sorted by time. A
// zero range defaults to the coming month.
func (s *ScheduleService) List(ctx context.Context, ownerID string, from, to time.Time) ([]models.Schedule, error) {
	if from.IsZero() {
		from = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	if !to.After(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid time range")
	}
	schedules, err := s.repo.ListByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Create adds a calendar entry owned by the caller.
func (s *ScheduleService) Create(ctx context.Context, ownerID string, req dto.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule := &models.Schedule{
		Title:       req.Title,
		Time:        req.Time,
		Description: req.Description,
		Color:       req.Color,
		CreatedBy:   ownerID,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an identical schedule entry already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
	}
	return schedule, nil
}

// Update modifies an owned calendar entry.
func (s *ScheduleService) Update(ctx context.Context, ownerID, id string, req dto.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	schedule.Title = req.Title
	schedule.Time = req.Time
	schedule.Description = req.Description
	schedule.Color = req.Color
	if err := s.repo.Update(ctx, schedule); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an identical schedule entry already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
	}
	return schedule, nil
}

// Delete removes an owned calendar entry.
func (s *ScheduleService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.findOwned(ctx, ownerID, id); err != nil {
		return err
	}
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return nil
}

func (s *ScheduleService) findOwned(ctx context.Context, ownerID, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule")
	}
	if schedule.CreatedBy != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not own this schedule")
	}
	return schedule, nil
}
