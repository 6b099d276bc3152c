package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type stubSessions struct {
	session *models.Session
	err     error
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

type stubAccounts struct {
	account *models.Account
	err     error
}

func (s *stubAccounts) FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

type stubStaff struct{ staff *models.Staff }

func (s *stubStaff) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	return s.staff, nil
}

type stubStudents struct{ student *models.Student }

func (s *stubStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return s.student, nil
}

func guardedRouter(sessions *stubSessions, accounts *stubAccounts, kind models.AccountKind) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	guard := Session(sessions, accounts, &stubStaff{staff: &models.Staff{ID: "a1"}}, &stubStudents{student: &models.Student{ID: "a1"}}, kind)
	r.GET("/guarded", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestSessionMiddlewareMissingToken(t *testing.T) {
	r := guardedRouter(&stubSessions{}, &stubAccounts{}, models.AccountKindStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareXTokenHeader(t *testing.T) {
	sessions := &stubSessions{session: &models.Session{AccountID: "a1", Kind: models.AccountKindStaff}}
	accounts := &stubAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	r := guardedRouter(sessions, accounts, models.AccountKindStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddlewareBearerFallback(t *testing.T) {
	sessions := &stubSessions{session: &models.Session{AccountID: "a1", Kind: models.AccountKindStudent}}
	accounts := &stubAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	r := guardedRouter(sessions, accounts, models.AccountKindStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddlewareWrongPortal(t *testing.T) {
	sessions := &stubSessions{session: &models.Session{AccountID: "a1", Kind: models.AccountKindStudent}}
	accounts := &stubAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	r := guardedRouter(sessions, accounts, models.AccountKindStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionMiddlewareExpiredSession(t *testing.T) {
	sessions := &stubSessions{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")}
	r := guardedRouter(sessions, &stubAccounts{}, models.AccountKindStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareInactiveAccount(t *testing.T) {
	sessions := &stubSessions{session: &models.Session{AccountID: "a1", Kind: models.AccountKindStaff}}
	accounts := &stubAccounts{account: &models.Account{ID: "a1", Status: models.StatusDeactivated}}
	r := guardedRouter(sessions, accounts, models.AccountKindStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
