package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/jobs"
)

type mockAuthAccounts struct {
	account *models.Account
	err     error
}

func (m *mockAuthAccounts) FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.account, nil
}

type mockOTPLifecycle struct {
	generateErr error
	consumeErr  error
	code        string
	consumed    string
}

func (m *mockOTPLifecycle) Generate(ctx context.Context, account *models.Account) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if m.code == "" {
		m.code = "ab12cd"
	}
	return m.code, nil
}

func (m *mockOTPLifecycle) ConsumeForPasswordChange(ctx context.Context, account *models.Account, code, newPassword string) error {
	if m.consumeErr != nil {
		return m.consumeErr
	}
	m.consumed = code
	account.Status = models.StatusActive
	return nil
}

type mockSessionIssuer struct {
	issued  []models.Session
	revoked []string
}

func (m *mockSessionIssuer) Issue(ctx context.Context, session models.Session) (string, error) {
	m.issued = append(m.issued, session)
	return "token-1", nil
}

func (m *mockSessionIssuer) Revoke(ctx context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	return nil
}

type mockMailQueue struct {
	jobs       []jobs.Job
	enqueueErr error
}

func (m *mockMailQueue) Enqueue(job jobs.Job) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func newAuthService(accounts *mockAuthAccounts, otp *mockOTPLifecycle, sessions *mockSessionIssuer, queue *mockMailQueue) *AuthService {
	return NewAuthService(accounts, otp, sessions, queue, validator.New(), zap.NewNop())
}

func TestAuthServiceRequestActivation(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Kind: models.AccountKindStaff, Email: "a@x.test", Status: models.StatusInit}}
	queue := &mockMailQueue{}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, queue)

	err := svc.RequestActivation(context.Background(), models.AccountKindStaff, dto.RequestActivationRequest{Email: "a@x.test"})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeVerificationCode, queue.jobs[0].Type)
	payload, ok := queue.jobs[0].Payload.(CodePayload)
	require.True(t, ok)
	assert.Equal(t, "ab12cd", payload.Code)
}

func TestAuthServiceRequestActivationAlreadyActive(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	err := svc.RequestActivation(context.Background(), models.AccountKindStaff, dto.RequestActivationRequest{Email: "a@x.test"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRequestActivationUnknownAccount(t *testing.T) {
	svc := newAuthService(&mockAuthAccounts{err: sql.ErrNoRows}, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	err := svc.RequestActivation(context.Background(), models.AccountKindStaff, dto.RequestActivationRequest{Email: "a@x.test"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRequestActivationQueueFailureIsSilent(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusInit}}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{enqueueErr: errors.New("queue full")})

	// mail dispatch is fire-and-forget
	assert.NoError(t, svc.RequestActivation(context.Background(), models.AccountKindStaff, dto.RequestActivationRequest{Email: "a@x.test"}))
}

func TestAuthServiceActivateOpensSession(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Kind: models.AccountKindStaff, Status: models.StatusInit}}
	otp := &mockOTPLifecycle{}
	sessions := &mockSessionIssuer{}
	svc := newAuthService(accounts, otp, sessions, &mockMailQueue{})

	res, err := svc.Activate(context.Background(), models.AccountKindStaff, dto.ActivateRequest{
		Email: "a@x.test", Code: "ab12cd", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, "ab12cd", otp.consumed)
	require.Len(t, sessions.issued, 1)
	assert.Equal(t, "a1", sessions.issued[0].AccountID)
}

func TestAuthServiceActivateBadCode(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusInit}}
	otp := &mockOTPLifecycle{consumeErr: appErrors.Clone(appErrors.ErrValidation, "invalid verification code")}
	svc := newAuthService(accounts, otp, &mockSessionIssuer{}, &mockMailQueue{})

	_, err := svc.Activate(context.Background(), models.AccountKindStaff, dto.ActivateRequest{
		Email: "a@x.test", Code: "wrong1", Password: "longenough",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	hashStr := string(hash)
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Kind: models.AccountKindStudent, Status: models.StatusActive, Password: &hashStr}}
	sessions := &mockSessionIssuer{}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, sessions, &mockMailQueue{})

	res, err := svc.Login(context.Background(), models.AccountKindStudent, dto.LoginRequest{Email: "a@x.test", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, models.AccountKindStudent, sessions.issued[0].Kind)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	hashStr := string(hash)
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive, Password: &hashStr}}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	_, err := svc.Login(context.Background(), models.AccountKindStaff, dto.LoginRequest{Email: "a@x.test", Password: "nope-nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	svc := newAuthService(&mockAuthAccounts{err: sql.ErrNoRows}, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	_, err := svc.Login(context.Background(), models.AccountKindStaff, dto.LoginRequest{Email: "a@x.test", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	hashStr := string(hash)
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusInit, Password: &hashStr}}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	_, err := svc.Login(context.Background(), models.AccountKindStaff, dto.LoginRequest{Email: "a@x.test", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogout(t *testing.T) {
	sessions := &mockSessionIssuer{}
	svc := newAuthService(&mockAuthAccounts{}, &mockOTPLifecycle{}, sessions, &mockMailQueue{})

	require.NoError(t, svc.Logout(context.Background(), "token-1"))
	assert.Equal(t, []string{"token-1"}, sessions.revoked)
}

func TestAuthServiceForgotPasswordRequiresActivation(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusInit}}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, &mockMailQueue{})

	err := svc.ForgotPassword(context.Background(), models.AccountKindStaff, dto.ForgotPasswordRequest{Email: "a@x.test"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceResetPassword(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	otp := &mockOTPLifecycle{}
	svc := newAuthService(accounts, otp, &mockSessionIssuer{}, &mockMailQueue{})

	err := svc.ResetPassword(context.Background(), models.AccountKindStaff, dto.ResetPasswordRequest{
		Email: "a@x.test", Code: "ab12cd", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "ab12cd", otp.consumed)
}

func TestAuthServiceForgotPasswordDispatchesCode(t *testing.T) {
	accounts := &mockAuthAccounts{account: &models.Account{ID: "a1", Status: models.StatusActive}}
	queue := &mockMailQueue{}
	svc := newAuthService(accounts, &mockOTPLifecycle{}, &mockSessionIssuer{}, queue)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.AccountKindStaff, dto.ForgotPasswordRequest{Email: "a@x.test"}))
	require.Len(t, queue.jobs, 1)
	assert.NotZero(t, queue.jobs[0].ID)
}
