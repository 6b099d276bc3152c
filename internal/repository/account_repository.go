package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

const accountColumns = `id, first_name, last_name, middle_name, email, phone, gender,
	nationality, state_of_origin, lga, picture, department_id, status, password,
	otp_pending, otp_expiry, otp_code, created_at, updated_at`

// AccountRepository serves the person columns shared by the staff and
// students tables. The account kind selects the table; every query is
// otherwise identical for both portals.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func accountTable(kind models.AccountKind) string {
	if kind == models.AccountKindStaff {
		return "staff"
	}
	return "students"
}

// FindByEmail fetches an account by its unique email. Emails are matched
// case-insensitively.
func (r *AccountRepository) FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(email) = $1", accountColumns, accountTable(kind))
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	account.Kind = kind
	return &account, nil
}

// FindByID fetches an account by id.
func (r *AccountRepository) FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", accountColumns, accountTable(kind))
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	account.Kind = kind
	return &account, nil
}

// SetOTP arms the account's single OTP slot, displacing any previous code.
func (r *AccountRepository) SetOTP(ctx context.Context, kind models.AccountKind, id, code string, expiry time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET otp_pending = true, otp_code = $2, otp_expiry = $3, updated_at = $4 WHERE id = $1`, accountTable(kind))
	if _, err := r.db.ExecContext(ctx, query, id, code, expiry, time.Now().UTC()); err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	return nil
}

// ClearOTP disarms the account's OTP slot.
func (r *AccountRepository) ClearOTP(ctx context.Context, kind models.AccountKind, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET otp_pending = false, otp_code = NULL, otp_expiry = NULL, updated_at = $2 WHERE id = $1`, accountTable(kind))
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	return nil
}

// SetPassword stores a new password hash and clears the OTP slot in the same
// statement. When activate is true the account also transitions to active.
func (r *AccountRepository) SetPassword(ctx context.Context, kind models.AccountKind, id, hash string, activate bool) error {
	query := fmt.Sprintf(`UPDATE %s SET password = $2, otp_pending = false, otp_code = NULL, otp_expiry = NULL, updated_at = $3 WHERE id = $1`, accountTable(kind))
	args := []interface{}{id, hash, time.Now().UTC()}
	if activate {
		query = fmt.Sprintf(`UPDATE %s SET password = $2, status = $4, otp_pending = false, otp_code = NULL, otp_expiry = NULL, updated_at = $3 WHERE id = $1`, accountTable(kind))
		args = append(args, models.StatusActive)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// UpdateProfile persists the self-service profile columns.
func (r *AccountRepository) UpdateProfile(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE %s SET phone = :phone, picture = :picture, middle_name = :middle_name,
		gender = :gender, nationality = :nationality, state_of_origin = :state_of_origin,
		lga = :lga, updated_at = :updated_at WHERE id = :id`, accountTable(account.Kind))
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
