package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecordStatus names the last approval stage a result record has reached.
type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "pending"
	RecordStatusHOD      RecordStatus = "HOD"
	RecordStatusApproved RecordStatus = "approved"
)

// RecordStatuses is the monotonic approval progression. Approved is
// terminal.
var RecordStatuses = []RecordStatus{RecordStatusPending, RecordStatusHOD, RecordStatusApproved}

// NextRecordStatus returns the stage following s. The second return is false
// when s is terminal or unknown.
func NextRecordStatus(s RecordStatus) (RecordStatus, bool) {
	for i, status := range RecordStatuses {
		if status == s && i+1 < len(RecordStatuses) {
			return RecordStatuses[i+1], true
		}
	}
	return "", false
}

// RecordEntry is one student's result inside a record.
type RecordEntry struct {
	StudentID string  `json:"student_id"`
	Score     float64 `json:"score"`
	Grade     string  `json:"grade,omitempty"`
}

// RecordEntries persists per-student results as JSONB.
type RecordEntries []RecordEntry

// Value marshals the entries to JSON for persistence.
func (e RecordEntries) Value() (driver.Value, error) {
	if e == nil {
		e = RecordEntries{}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal record entries: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the entries.
func (e *RecordEntries) Scan(value interface{}) error {
	*e = RecordEntries{}
	return scanJSON(value, e, "RecordEntries")
}

// Record is a result sheet for a course and academic year. It is owned by
// the staff who created it and becomes immutable once approved.
type Record struct {
	ID        string        `db:"id" json:"id"`
	CourseID  string        `db:"course_id" json:"course_id"`
	Year      int           `db:"year" json:"year"`
	Status    RecordStatus  `db:"status" json:"status"`
	Entries   RecordEntries `db:"entries" json:"entries"`
	CreatedBy string        `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
