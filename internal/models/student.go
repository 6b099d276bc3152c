package models

import "time"

// Student represents a learner enrolled in a department.
type Student struct {
	ID                string        `db:"id" json:"id"`
	FirstName         string        `db:"first_name" json:"first_name"`
	LastName          string        `db:"last_name" json:"last_name"`
	MiddleName        *string       `db:"middle_name" json:"middle_name,omitempty"`
	Email             string        `db:"email" json:"email"`
	MatricNo          string        `db:"matric_no" json:"matric_no"`
	Level             int           `db:"level" json:"level"`
	RegisteredCourses CourseBuckets `db:"registered_courses" json:"registered_courses"`
	DepartmentID      *string       `db:"department_id" json:"department_id,omitempty"`
	Phone             *string       `db:"phone" json:"phone,omitempty"`
	Gender            *string       `db:"gender" json:"gender,omitempty"`
	Nationality       *string       `db:"nationality" json:"nationality,omitempty"`
	StateOfOrigin     *string       `db:"state_of_origin" json:"state_of_origin,omitempty"`
	LGA               *string       `db:"lga" json:"lga,omitempty"`
	Picture           *string       `db:"picture" json:"picture,omitempty"`
	Status            Status        `db:"status" json:"status"`
	Password          *string       `db:"password" json:"-"`
	OTPPending        bool          `db:"otp_pending" json:"-"`
	OTPExpiry         *time.Time    `db:"otp_expiry" json:"-"`
	OTPCode           *string       `db:"otp_code" json:"-"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// AvailableCourseScope tags an offered course with the catalog that offers
// it.
type AvailableCourseScope string

const (
	ScopeDepartment AvailableCourseScope = "department"
	ScopeFaculty    AvailableCourseScope = "faculty"
)

// AvailableCourse is one course offered to a student for registration.
type AvailableCourse struct {
	Course
	Scope AvailableCourseScope `json:"scope"`
}
