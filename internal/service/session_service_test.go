package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/config"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type mockSessionStore struct {
	sessions  map[string]models.Session
	ttl       time.Duration
	createErr error
	getErr    error
	deleteErr error
}

func (m *mockSessionStore) Create(ctx context.Context, token string, session models.Session, ttl time.Duration) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.sessions == nil {
		m.sessions = make(map[string]models.Session)
	}
	m.sessions[token] = session
	m.ttl = ttl
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, token)
	return nil
}

func TestSessionServiceIssueAndResolve(t *testing.T) {
	store := &mockSessionStore{}
	svc := NewSessionService(store, zap.NewNop(), config.SessionConfig{TokenTTL: 24 * time.Hour})

	token, err := svc.Issue(context.Background(), models.Session{AccountID: "a1", Kind: models.AccountKindStudent})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 24*time.Hour, store.ttl)

	session, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a1", session.AccountID)
	assert.Equal(t, models.AccountKindStudent, session.Kind)
}

func TestSessionServiceIssueTokensAreDistinct(t *testing.T) {
	store := &mockSessionStore{}
	svc := NewSessionService(store, zap.NewNop(), config.SessionConfig{TokenTTL: time.Hour})

	first, err := svc.Issue(context.Background(), models.Session{AccountID: "a1", Kind: models.AccountKindStaff})
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), models.Session{AccountID: "a1", Kind: models.AccountKindStaff})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, store.sessions, 2)
}

func TestSessionServiceResolveUnknownToken(t *testing.T) {
	svc := NewSessionService(&mockSessionStore{}, zap.NewNop(), config.SessionConfig{})

	_, err := svc.Resolve(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceResolveStoreFailure(t *testing.T) {
	svc := NewSessionService(&mockSessionStore{getErr: errors.New("redis down")}, zap.NewNop(), config.SessionConfig{})

	_, err := svc.Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceRevoke(t *testing.T) {
	store := &mockSessionStore{sessions: map[string]models.Session{"token": {AccountID: "a1"}}}
	svc := NewSessionService(store, zap.NewNop(), config.SessionConfig{})

	require.NoError(t, svc.Revoke(context.Background(), "token"))
	_, err := svc.Resolve(context.Background(), "token")
	require.Error(t, err)

	// revoking again still succeeds
	require.NoError(t, svc.Revoke(context.Background(), "token"))
}
