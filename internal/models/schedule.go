package models

import "time"

// Schedule is a personal calendar entry owned by the account that created
// it.
type Schedule struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Time        time.Time `db:"time" json:"time"`
	Description *string   `db:"description" json:"description,omitempty"`
	Color       *string   `db:"color" json:"color,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
