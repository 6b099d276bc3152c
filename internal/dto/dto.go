package dto

import (
	"time"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

// RequestActivationRequest starts the activation flow for an init account.
type RequestActivationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ActivateRequest redeems an activation code and sets the first password.
type ActivateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest authenticates an active account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a reset code and sets a new password.
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse returns a freshly issued session token with the account it
// authenticates.
type TokenResponse struct {
	Token   string      `json:"token"`
	Account interface{} `json:"account,omitempty"`
}

// UpdateProfileRequest carries the self-service profile fields. Phone and
// picture stay mutable; the rest may be set once and are rejected after.
type UpdateProfileRequest struct {
	Phone         *string `json:"phone"`
	Picture       *string `json:"picture"`
	MiddleName    *string `json:"middle_name"`
	Gender        *string `json:"gender"`
	Nationality   *string `json:"nationality"`
	StateOfOrigin *string `json:"state_of_origin"`
	LGA           *string `json:"lga"`
}

// AssignCoursesRequest overwrites a lecturer's course assignment. An empty
// list clears it.
type AssignCoursesRequest struct {
	StaffID   string   `json:"staff_id" validate:"required"`
	CourseIDs []string `json:"course_ids"`
}

// GatewayCreateRequest creates one entity through the object gateway.
type GatewayCreateRequest struct {
	Type  string                 `json:"type" validate:"required"`
	Attrs map[string]interface{} `json:"attrs" validate:"required"`
}

// GatewayUpdateRequest updates one entity through the object gateway.
type GatewayUpdateRequest struct {
	Type  string                 `json:"type" validate:"required"`
	Attrs map[string]interface{} `json:"attrs" validate:"required"`
}

// GatewayCreateManyRequest bulk-inserts entities with partial-failure
// semantics. Items keeps raw values so malformed elements can be reported
// per index instead of failing the whole decode.
type GatewayCreateManyRequest struct {
	Type  string        `json:"type" validate:"required"`
	Items []interface{} `json:"items" validate:"required,min=1"`
}

// SetCoursesRequest replaces available-course buckets on a catalog owner.
type SetCoursesRequest struct {
	Owner     string   `json:"owner" validate:"required,oneof=department faculty"`
	OwnerID   string   `json:"owner_id" validate:"required"`
	CourseIDs []string `json:"course_ids" validate:"required,min=1"`
}

// UnsetCoursesRequest removes available-course buckets by key.
type UnsetCoursesRequest struct {
	Owner   string             `json:"owner" validate:"required,oneof=department faculty"`
	OwnerID string             `json:"owner_id" validate:"required"`
	Keys    []models.BucketKey `json:"keys" validate:"required,min=1"`
}

// RegisterCoursesRequest registers a student for courses in one semester.
type RegisterCoursesRequest struct {
	Semester  int      `json:"semester" validate:"required,oneof=1 2"`
	CourseIDs []string `json:"course_ids" validate:"required,min=1"`
}

// UnregisterCoursesRequest drops the student's registration bucket for one
// semester.
type UnregisterCoursesRequest struct {
	Semester int `json:"semester" validate:"required,oneof=1 2"`
}

// ScoreEntry grades one student's submission.
type ScoreEntry struct {
	StudentID string  `json:"student_id" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	Comment   *string `json:"comment"`
}

// GradeProjectRequest grades a batch of submissions after the deadline.
type GradeProjectRequest struct {
	Scores []ScoreEntry `json:"scores" validate:"required,min=1,dive"`
}

// SubmitProjectRequest submits or replaces a student's project answer.
type SubmitProjectRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// ScheduleRequest creates or updates a personal calendar entry.
type ScheduleRequest struct {
	Title       string    `json:"title" validate:"required"`
	Time        time.Time `json:"time" validate:"required"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
}
