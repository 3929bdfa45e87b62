package models

import (
	"encoding/json"
	"time"
)

// BlockType selects when app blocking applies.
type BlockType string

const (
	BlockDuringHabit   BlockType = "during_habit"
	BlockTimePeriod    BlockType = "time_period"
	BlockUntilComplete BlockType = "until_complete"
)

// AppBlockSettings is the premium app-blocking configuration of a habit.
// StartTime and EndTime ("HH:MM") are only meaningful for BlockTimePeriod.
type AppBlockSettings struct {
	Enabled     bool      `json:"enabled"`
	BlockedApps []string  `json:"blockedApps"`
	BlockType   BlockType `json:"blockType"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
}

type Habit struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Theme           Theme             `json:"theme"`
	ColorPalette    ColorPalette      `json:"colorPalette,omitempty"`
	GoalFrequency   Frequency         `json:"goalFrequency"`
	CustomFrequency int               `json:"customFrequency,omitempty"`
	ReminderEnabled bool              `json:"reminderEnabled"`
	ReminderTime    string            `json:"reminderTime,omitempty"`
	CurrentStage    int               `json:"currentStage"`
	StreakCount     int               `json:"streakCount"`
	LastCompletedAt *time.Time        `json:"lastCompletedAt,omitempty"`
	Health          int               `json:"health"`
	IsDead          bool              `json:"isDead"`
	DecayCheckedAt  *time.Time        `json:"decayCheckedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	CreatedMonth    string            `json:"createdMonth,omitempty"`
	AppBlocking     *AppBlockSettings `json:"appBlocking,omitempty"`
	// Pending marks a habit created locally while the server was unreachable.
	Pending bool `json:"pending,omitempty"`
}

// UnmarshalJSON treats a missing health field as full health so records
// written before health tracking existed load as living habits.
func (h *Habit) UnmarshalJSON(data []byte) error {
	type habitAlias Habit
	aux := struct {
		*habitAlias
		Health *int `json:"health"`
	}{habitAlias: (*habitAlias)(h)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Health == nil {
		h.Health = 100
	} else {
		h.Health = *aux.Health
	}
	return nil
}

// HabitDraft holds the caller-supplied fields of a new habit.
type HabitDraft struct {
	Name            string            `json:"name"`
	Theme           Theme             `json:"theme"`
	ColorPalette    ColorPalette      `json:"colorPalette,omitempty"`
	GoalFrequency   Frequency         `json:"goalFrequency"`
	CustomFrequency int               `json:"customFrequency,omitempty"`
	ReminderEnabled bool              `json:"reminderEnabled"`
	ReminderTime    string            `json:"reminderTime,omitempty"`
	AppBlocking     *AppBlockSettings `json:"appBlocking,omitempty"`
	// CreatedMonth is stamped by the creating side when empty.
	CreatedMonth string `json:"createdMonth,omitempty"`
}

// HabitPatch is a partial update; nil fields are left untouched.
type HabitPatch struct {
	Name            *string           `json:"name,omitempty"`
	Theme           *Theme            `json:"theme,omitempty"`
	ColorPalette    *ColorPalette     `json:"colorPalette,omitempty"`
	GoalFrequency   *Frequency        `json:"goalFrequency,omitempty"`
	CustomFrequency *int              `json:"customFrequency,omitempty"`
	ReminderEnabled *bool             `json:"reminderEnabled,omitempty"`
	ReminderTime    *string           `json:"reminderTime,omitempty"`
	CurrentStage    *int              `json:"currentStage,omitempty"`
	StreakCount     *int              `json:"streakCount,omitempty"`
	LastCompletedAt *time.Time        `json:"lastCompletedAt,omitempty"`
	Health          *int              `json:"health,omitempty"`
	IsDead          *bool             `json:"isDead,omitempty"`
	DecayCheckedAt  *time.Time        `json:"decayCheckedAt,omitempty"`
	AppBlocking     *AppBlockSettings `json:"appBlocking,omitempty"`
}

// Apply copies the set fields of p onto h. It does not touch UpdatedAt.
func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Theme != nil {
		h.Theme = *p.Theme
	}
	if p.ColorPalette != nil {
		h.ColorPalette = *p.ColorPalette
	}
	if p.GoalFrequency != nil {
		h.GoalFrequency = *p.GoalFrequency
	}
	if p.CustomFrequency != nil {
		h.CustomFrequency = *p.CustomFrequency
	}
	if p.ReminderEnabled != nil {
		h.ReminderEnabled = *p.ReminderEnabled
	}
	if p.ReminderTime != nil {
		h.ReminderTime = *p.ReminderTime
	}
	if p.CurrentStage != nil {
		h.CurrentStage = *p.CurrentStage
	}
	if p.StreakCount != nil {
		h.StreakCount = *p.StreakCount
	}
	if p.LastCompletedAt != nil {
		t := *p.LastCompletedAt
		h.LastCompletedAt = &t
	}
	if p.Health != nil {
		h.Health = *p.Health
	}
	if p.IsDead != nil {
		h.IsDead = *p.IsDead
	}
	if p.DecayCheckedAt != nil {
		t := *p.DecayCheckedAt
		h.DecayCheckedAt = &t
	}
	if p.AppBlocking != nil {
		ab := *p.AppBlocking
		ab.BlockedApps = append([]string(nil), p.AppBlocking.BlockedApps...)
		h.AppBlocking = &ab
	}
}

// LifecyclePatch captures the lifecycle-owned fields of h: stage, streak,
// last completion, health and death state.
func LifecyclePatch(h Habit) HabitPatch {
	stage, streak, health, dead := h.CurrentStage, h.StreakCount, h.Health, h.IsDead
	p := HabitPatch{
		CurrentStage: &stage,
		StreakCount:  &streak,
		Health:       &health,
		IsDead:       &dead,
	}
	if h.LastCompletedAt != nil {
		t := *h.LastCompletedAt
		p.LastCompletedAt = &t
	}
	if h.DecayCheckedAt != nil {
		t := *h.DecayCheckedAt
		p.DecayCheckedAt = &t
	}
	return p
}

// IsEmpty reports whether the patch sets no fields.
func (p HabitPatch) IsEmpty() bool {
	return p == HabitPatch{}
}
