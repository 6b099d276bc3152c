package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Submission is one student's answer to a project, graded after the
// deadline.
type Submission struct {
	StudentID   string    `json:"student_id"`
	Answer      string    `json:"answer"`
	Score       *float64  `json:"score,omitempty"`
	Comment     *string   `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submissions persists per-student submissions as JSONB.
type Submissions []Submission

// Value marshals the submissions to JSON for persistence.
func (s Submissions) Value() (driver.Value, error) {
	if s == nil {
		s = Submissions{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal submissions: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the submissions.
func (s *Submissions) Scan(value interface{}) error {
	*s = Submissions{}
	return scanJSON(value, s, "Submissions")
}

// Upsert replaces the submission for sub.StudentID or appends a new one.
func (s Submissions) Upsert(sub Submission) Submissions {
	for i, existing := range s {
		if existing.StudentID == sub.StudentID {
			s[i] = sub
			return s
		}
	}
	return append(s, sub)
}

// SetScore grades the submission belonging to studentID, reporting whether
// one existed. Ungraded submissions are left untouched.
func (s Submissions) SetScore(studentID string, score float64, comment *string) bool {
	for i := range s {
		if s[i].StudentID == studentID {
			s[i].Score = &score
			s[i].Comment = comment
			return true
		}
	}
	return false
}

// Project is a course assignment with a grading deadline, owned by its
// creating staff.
type Project struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	CourseID    string      `db:"course_id" json:"course_id"`
	Year        int         `db:"year" json:"year"`
	Description *string     `db:"description" json:"description,omitempty"`
	Deadline    time.Time   `db:"deadline" json:"deadline"`
	Submissions Submissions `db:"submissions" json:"submissions"`
	CreatedBy   string      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
