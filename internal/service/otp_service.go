package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/config"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
)

type otpAccountRepository interface {
	SetOTP(ctx context.Context, kind models.AccountKind, id, code string, expiry time.Time) error
	ClearOTP(ctx context.Context, kind models.AccountKind, id string) error
	SetPassword(ctx context.Context, kind models.AccountKind, id, hash string, activate bool) error
}

// OTPService governs the single time-bound verification code slot on each
// account. Generating a new code displaces the previous one, so at most one
// code is outstanding per account.
type OTPService struct {
	repo   otpAccountRepository
	logger *zap.Logger
	config config.OTPConfig
}

// NewOTPService constructs an OTPService.
func NewOTPService(repo otpAccountRepository, logger *zap.Logger, cfg config.OTPConfig) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPService{repo: repo, logger: logger, config: cfg}
}

// Generate arms the account's OTP slot and returns the plaintext code for
// the mail dispatcher.
func (s *OTPService) Generate(ctx context.Context, account *models.Account) (string, error) {
	code, err := newCode()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
	}
	expiry := time.Now().UTC().Add(s.config.TTL)
	if err := s.repo.SetOTP(ctx, account.Kind, account.ID, code, expiry); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store code")
	}
	account.OTPPending = true
	account.OTPCode = &code
	account.OTPExpiry = &expiry
	return code, nil
}

// Validate redeems the supplied code against the account's slot. Expired
// codes clear the slot; a mismatch keeps it armed so retries are allowed
// until expiry. A successful match clears the slot, making the code
// single-use.
func (s *OTPService) Validate(ctx context.Context, account *models.Account, supplied string) error {
	if !account.OTPPending || account.OTPCode == nil {
		return appErrors.Clone(appErrors.ErrValidation, "no verification code pending")
	}
	if account.OTPExpiry == nil || time.Now().UTC().After(*account.OTPExpiry) {
		if err := s.repo.ClearOTP(ctx, account.Kind, account.ID); err != nil {
			s.logger.Warn("failed to clear expired code", zap.Error(err))
		}
		s.clearLocal(account)
		return appErrors.Clone(appErrors.ErrExpired, "")
	}
	if !strings.EqualFold(supplied, *account.OTPCode) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid verification code")
	}
	if err := s.repo.ClearOTP(ctx, account.Kind, account.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear code")
	}
	s.clearLocal(account)
	return nil
}

// ConsumeForPasswordChange composes Validate with a password change. OTP
// failures propagate untouched. On success the new hash is persisted, and
// an init account transitions to active on its first password set.
func (s *OTPService) ConsumeForPasswordChange(ctx context.Context, account *models.Account, code, newPassword string) error {
	if err := s.Validate(ctx, account, code); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	activate := account.Status == models.StatusInit
	if err := s.repo.SetPassword(ctx, account.Kind, account.ID, string(hash), activate); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store password")
	}
	hashStr := string(hash)
	account.Password = &hashStr
	if activate {
		account.Status = models.StatusActive
	}
	return nil
}

func (s *OTPService) clearLocal(account *models.Account) {
	account.OTPPending = false
	account.OTPCode = nil
	account.OTPExpiry = nil
}

// newCode returns a 6-character lowercase hex code.
func newCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
