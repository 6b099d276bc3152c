package models

import "time"

// Staff represents an academic or administrative employee.
type Staff struct {
	ID              string        `db:"id" json:"id"`
	FirstName       string        `db:"first_name" json:"first_name"`
	LastName        string        `db:"last_name" json:"last_name"`
	MiddleName      *string       `db:"middle_name" json:"middle_name,omitempty"`
	Email           string        `db:"email" json:"email"`
	StaffID         string        `db:"staff_id" json:"staff_id"`
	Role            Role          `db:"role" json:"role"`
	Privileges      Privileges    `db:"privileges" json:"privileges"`
	AssignedCourses StringList    `db:"assigned_courses" json:"assigned_courses"`
	DepartmentID    *string       `db:"department_id" json:"department_id,omitempty"`
	Phone           *string       `db:"phone" json:"phone,omitempty"`
	Gender          *string       `db:"gender" json:"gender,omitempty"`
	Nationality     *string       `db:"nationality" json:"nationality,omitempty"`
	StateOfOrigin   *string       `db:"state_of_origin" json:"state_of_origin,omitempty"`
	LGA             *string       `db:"lga" json:"lga,omitempty"`
	Picture         *string       `db:"picture" json:"picture,omitempty"`
	Status          Status        `db:"status" json:"status"`
	Password        *string       `db:"password" json:"-"`
	OTPPending      bool          `db:"otp_pending" json:"-"`
	OTPExpiry       *time.Time    `db:"otp_expiry" json:"-"`
	OTPCode         *string       `db:"otp_code" json:"-"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}
