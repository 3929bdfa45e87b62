// Package lifecycle computes habit state transitions: streaks, growth stage,
// health decay, death and revival. Every function is pure; callers persist
// the results.
package lifecycle

import (
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/utils"
)

// Outcome is the result of completing a habit.
type Outcome struct {
	Habit      models.Habit
	Completion models.CompletionDraft
	LeveledUp  bool
	// HealthRestored is the health actually gained, after capping.
	HealthRestored int
}

// NewHabit builds the initial state of a habit created at now.
func NewHabit(draft models.HabitDraft, now time.Time) models.Habit {
	month := draft.CreatedMonth
	if month == "" {
		month = utils.MonthKey(now)
	}
	h := models.Habit{
		Name:            draft.Name,
		Theme:           draft.Theme,
		ColorPalette:    draft.ColorPalette,
		GoalFrequency:   draft.GoalFrequency,
		CustomFrequency: draft.CustomFrequency,
		ReminderEnabled: draft.ReminderEnabled,
		ReminderTime:    draft.ReminderTime,
		CurrentStage:    0,
		StreakCount:     0,
		Health:          constants.InitialHealth,
		IsDead:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedMonth:    month,
	}
	if h.Theme == "" {
		h.Theme = models.DefaultTheme
	}
	if h.ColorPalette == "" {
		h.ColorPalette = models.DefaultPalette
	}
	if h.GoalFrequency == "" {
		h.GoalFrequency = models.FrequencyDaily
	}
	if draft.AppBlocking != nil {
		ab := *draft.AppBlocking
		ab.BlockedApps = append([]string(nil), draft.AppBlocking.BlockedApps...)
		h.AppBlocking = &ab
	}
	return h
}

// CompleteHabit advances a living habit by one completion at now.
// priorCompletions is the number of completions recorded before this one.
// Completing twice on the same day is permitted here; callers gate it.
func CompleteHabit(h models.Habit, now time.Time, priorCompletions int, notes string) (Outcome, error) {
	if h.IsDead {
		return Outcome{}, errors.InvalidStatef("habit %q is dead", h.Name)
	}

	next := h
	next.StreakCount = nextStreak(h, now)

	stage := StageForCompletions(priorCompletions + 1)
	if stage < h.CurrentStage {
		stage = h.CurrentStage
	}
	next.CurrentStage = stage

	next.Health = clampHealth(h.Health + constants.CompletionHealthRestore)

	completedAt := now
	next.LastCompletedAt = &completedAt
	next.UpdatedAt = now

	return Outcome{
		Habit: next,
		Completion: models.CompletionDraft{
			HabitID:     h.ID,
			CompletedAt: now,
			Notes:       notes,
		},
		LeveledUp:      next.CurrentStage > h.CurrentStage,
		HealthRestored: next.Health - h.Health,
	}, nil
}

func nextStreak(h models.Habit, now time.Time) int {
	if h.LastCompletedAt == nil {
		return 1
	}
	switch delta := utils.DaysBetween(*h.LastCompletedAt, now); {
	case delta <= 0:
		// Same day. A clock that moved backwards is treated the same way.
		return h.StreakCount
	case delta == 1:
		return h.StreakCount + 1
	default:
		return 1
	}
}

// StageForCompletions maps a completion total onto a growth stage.
func StageForCompletions(total int) int {
	stage := total / constants.CompletionsPerStage
	if stage > constants.MaxStage {
		return constants.MaxStage
	}
	if stage < 0 {
		return 0
	}
	return stage
}

// CheckHealthDecay applies neglect to h as of today and reports whether any
// persisted field changed. The first day after the last activity is free;
// each further day costs HealthLossPerMissedDay. Days already charged, as
// recorded in DecayCheckedAt, are not charged again. Dead habits are left as-is.
func CheckHealthDecay(h models.Habit, today time.Time) (models.Habit, bool) {
	if h.IsDead {
		return h, false
	}

	reference := h.CreatedAt
	if h.LastCompletedAt != nil {
		reference = *h.LastCompletedAt
	}

	due := missedDays(utils.DaysBetween(reference, today))
	if due == 0 {
		return h, false
	}
	charged := 0
	if h.DecayCheckedAt != nil && h.DecayCheckedAt.After(reference) {
		charged = missedDays(utils.DaysBetween(reference, *h.DecayCheckedAt))
	}
	if due <= charged {
		return h, false
	}

	health := clampHealth(h.Health - (due-charged)*constants.HealthLossPerMissedDay)
	checked := today

	next := h
	next.Health = health
	next.IsDead = health <= 0
	next.DecayCheckedAt = &checked
	if next.IsDead {
		next.StreakCount = 0
	}
	next.UpdatedAt = today
	return next, true
}

func missedDays(days int) int {
	if days <= constants.DecayGracePeriodDays {
		return 0
	}
	return days - constants.DecayGracePeriodDays
}

// ReviveHabit brings a dead habit back at half health, resetting growth and streak.
func ReviveHabit(h models.Habit, now time.Time) (models.Habit, error) {
	if !h.IsDead {
		return h, errors.InvalidStatef("habit %q is not dead", h.Name)
	}

	revivedAt := now
	next := h
	next.Health = constants.RevivedHealth
	next.IsDead = false
	next.CurrentStage = 0
	next.StreakCount = 0
	next.LastCompletedAt = &revivedAt
	next.UpdatedAt = now
	return next, nil
}

func clampHealth(v int) int {
	if v > constants.MaxHealth {
		return constants.MaxHealth
	}
	if v < 0 {
		return 0
	}
	return v
}
