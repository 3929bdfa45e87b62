package models

import "time"

// Completion is one logged occurrence of a habit. CompletedAt drives all
// day-based math; CreatedAt is the insertion time.
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habitId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompletionDraft holds the fields of a completion before an id is assigned.
type CompletionDraft struct {
	HabitID     string    `json:"habitId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
}
