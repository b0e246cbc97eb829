package models

import "time"

// Creation is one row in poet_creation_data: a generated text tied to the
// account that spent a credit on it. Text holds the cleaned content only;
// the title is stored separately.
type Creation struct {
	Poet      int64     `json:"poet" db:"poet"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"text"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
