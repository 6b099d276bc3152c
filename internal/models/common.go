package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// InsertFailure describes one rejected element of a bulk insert, addressed by
// its index in the caller's original list.
type InsertFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkResult is the outcome of a bulk insert. Inserted and Failed partition
// the input; a fully successful batch has an empty Failed slice.
type BulkResult struct {
	Inserted []map[string]interface{} `json:"inserted"`
	Failed   []InsertFailure          `json:"failed,omitempty"`
}

// StringList persists a list of reference ids as JSONB.
type StringList []string

// Value marshals the list to JSON for persistence.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the list.
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	return scanJSON(value, l, "StringList")
}

// Contains reports whether id is present in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
