package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type profileAccountRepository interface {
	UpdateProfile(ctx context.Context, account *models.Account) error
}

// ProfileService is the self-service surface on a person's own account.
// Phone and picture stay mutable; the remaining personal fields may be set
// once and are locked after.
type ProfileService struct {
	repo   profileAccountRepository
	logger *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileAccountRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, logger: logger}
}

// UpdateProfile applies the request onto the caller's own account.
func (s *ProfileService) UpdateProfile(ctx context.Context, account *models.Account, req dto.UpdateProfileRequest) (*models.Account, error) {
	if req.Phone != nil {
		account.Phone = req.Phone
	}
	if req.Picture != nil {
		account.Picture = req.Picture
	}

	setOnce := []struct {
		name    string
		current **string
		next    *string
	}{
		{"middle_name", &account.MiddleName, req.MiddleName},
		{"gender", &account.Gender, req.Gender},
		{"nationality", &account.Nationality, req.Nationality},
		{"state_of_origin", &account.StateOfOrigin, req.StateOfOrigin},
		{"lga", &account.LGA, req.LGA},
	}
	for _, field := range setOnce {
		if field.next == nil {
			continue
		}
		if *field.current != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, field.name+" can only be set once")
		}
		*field.current = field.next
	}

	if err := s.repo.UpdateProfile(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile")
	}
	return account, nil
}
