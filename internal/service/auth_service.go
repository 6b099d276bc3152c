package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/jobs"
)

// JobTypeVerificationCode labels mail queue jobs carrying an OTP.
const JobTypeVerificationCode = "verification_code"

// CodePayload is the mail queue payload for one verification code.
type CodePayload struct {
	Account *models.Account
	Code    string
}

type authAccountRepository interface {
	FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error)
}

type otpLifecycle interface {
	Generate(ctx context.Context, account *models.Account) (string, error)
	ConsumeForPasswordChange(ctx context.Context, account *models.Account, code, newPassword string) error
}

type sessionIssuer interface {
	Issue(ctx context.Context, session models.Session) (string, error)
	Revoke(ctx context.Context, token string) error
}

type mailQueue interface {
	Enqueue(job jobs.Job) error
}

// AuthService drives the staff and student portals: activation, login,
// logout and password reset. The account kind selects the portal; the flows
// are identical for both.
type AuthService struct {
	accounts  authAccountRepository
	otp       otpLifecycle
	sessions  sessionIssuer
	queue     mailQueue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts authAccountRepository, otp otpLifecycle, sessions sessionIssuer, queue mailQueue, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		accounts:  accounts,
		otp:       otp,
		sessions:  sessions,
		queue:     queue,
		validator: validate,
		logger:    logger,
	}
}

// RequestActivation arms a fresh verification code for an init account and
// dispatches it by mail.
func (s *AuthService) RequestActivation(ctx context.Context, kind models.AccountKind, req dto.RequestActivationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activation payload")
	}
	account, err := s.findAccount(ctx, kind, req.Email)
	if err != nil {
		return err
	}
	if account.Status != models.StatusInit {
		return appErrors.Clone(appErrors.ErrConflict, "account already activated")
	}
	return s.issueCode(ctx, account)
}

// Activate redeems an activation code, sets the first password and opens a
// session.
func (s *AuthService) Activate(ctx context.Context, kind models.AccountKind, req dto.ActivateRequest) (*dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activation payload")
	}
	account, err := s.findAccount(ctx, kind, req.Email)
	if err != nil {
		return nil, err
	}
	if account.Status != models.StatusInit {
		return nil, appErrors.Clone(appErrors.ErrConflict, "account already activated")
	}
	if err := s.otp.ConsumeForPasswordChange(ctx, account, req.Code, req.Password); err != nil {
		return nil, err
	}
	return s.openSession(ctx, account)
}

// Login authenticates an active account and opens a session.
func (s *AuthService) Login(ctx context.Context, kind models.AccountKind, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	account, err := s.accounts.FindByEmail(ctx, kind, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	if account.Status != models.StatusActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is not active")
	}
	if account.Password == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.Password), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	return s.openSession(ctx, account)
}

// Logout revokes the caller's session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// ForgotPassword arms a reset code for an activated account and dispatches
// it by mail.
func (s *AuthService) ForgotPassword(ctx context.Context, kind models.AccountKind, req dto.ForgotPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	account, err := s.findAccount(ctx, kind, req.Email)
	if err != nil {
		return err
	}
	if account.Status == models.StatusInit {
		return appErrors.Clone(appErrors.ErrConflict, "account is not activated yet")
	}
	return s.issueCode(ctx, account)
}

// ResetPassword redeems a reset code and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, kind models.AccountKind, req dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	account, err := s.findAccount(ctx, kind, req.Email)
	if err != nil {
		return err
	}
	return s.otp.ConsumeForPasswordChange(ctx, account, req.Code, req.Password)
}

func (s *AuthService) findAccount(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	return account, nil
}

// issueCode generates a code and hands it to the mail queue. Mail dispatch
// is fire-and-forget: a queue failure is logged, never propagated, and the
// armed code stays valid.
func (s *AuthService) issueCode(ctx context.Context, account *models.Account) error {
	code, err := s.otp.Generate(ctx, account)
	if err != nil {
		return err
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeVerificationCode,
		Payload: CodePayload{Account: account, Code: code},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue verification code mail",
			zap.String("email", account.Email), zap.Error(err))
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, account *models.Account) (*dto.TokenResponse, error) {
	token, err := s.sessions.Issue(ctx, models.Session{AccountID: account.ID, Kind: account.Kind})
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, Account: account}, nil
}
