package models

import "time"

// AccountKind discriminates the two person tables behind the shared account
// surface.
type AccountKind string

const (
	AccountKindStaff   AccountKind = "staff"
	AccountKindStudent AccountKind = "student"
)

// ParseAccountKind validates a portal discriminator.
func ParseAccountKind(raw string) (AccountKind, bool) {
	switch AccountKind(raw) {
	case AccountKindStaff, AccountKindStudent:
		return AccountKind(raw), true
	}
	return "", false
}

// Status captures the account lifecycle state.
type Status string

const (
	StatusInit        Status = "init"
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// Account is the person-column view shared by the staff and students tables.
// Auth, OTP and profile flows operate on this view; kind routes queries to
// the right table.
type Account struct {
	ID            string      `db:"id" json:"id"`
	Kind          AccountKind `db:"-" json:"-"`
	FirstName     string      `db:"first_name" json:"first_name"`
	LastName      string      `db:"last_name" json:"last_name"`
	MiddleName    *string     `db:"middle_name" json:"middle_name,omitempty"`
	Email         string      `db:"email" json:"email"`
	Phone         *string     `db:"phone" json:"phone,omitempty"`
	Gender        *string     `db:"gender" json:"gender,omitempty"`
	Nationality   *string     `db:"nationality" json:"nationality,omitempty"`
	StateOfOrigin *string     `db:"state_of_origin" json:"state_of_origin,omitempty"`
	LGA           *string     `db:"lga" json:"lga,omitempty"`
	Picture       *string     `db:"picture" json:"picture,omitempty"`
	DepartmentID  *string     `db:"department_id" json:"department_id,omitempty"`
	Status        Status      `db:"status" json:"status"`
	Password      *string     `db:"password" json:"-"`
	OTPPending    bool        `db:"otp_pending" json:"-"`
	OTPExpiry     *time.Time  `db:"otp_expiry" json:"-"`
	OTPCode       *string     `db:"otp_code" json:"-"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts for mail salutations.
func (a *Account) FullName() string {
	name := a.FirstName
	if a.LastName != "" {
		name += " " + a.LastName
	}
	return name
}
