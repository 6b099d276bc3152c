package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/config"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type sessionStore interface {
	Create(ctx context.Context, token string, session models.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionService maps opaque tokens to account identities with a TTL.
// Multiple concurrent tokens per account are allowed.
type SessionService struct {
	store  sessionStore
	logger *zap.Logger
	config config.SessionConfig
}

// NewSessionService constructs a SessionService.
func NewSessionService(store sessionStore, logger *zap.Logger, cfg config.SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{store: store, logger: logger, config: cfg}
}

// Issue creates a fresh opaque token for the session.
func (s *SessionService) Issue(ctx context.Context, session models.Session) (string, error) {
	token := uuid.NewString()
	if err := s.store.Create(ctx, token, session, s.config.TokenTTL); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "session store unavailable")
	}
	return token, nil
}

// Resolve returns the session behind token. An absent or expired token is
// ErrUnauthorized; a store failure is surfaced distinctly as unavailable.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "session store unavailable")
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return session, nil
}

// Revoke deletes the token. Revoking an absent token succeeds.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "session store unavailable")
	}
	return nil
}
