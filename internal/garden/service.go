// Package garden is the habit surface used by the CLI: it validates requests,
// applies entitlements and lifecycle rules, and persists through the data layer.
package garden

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/datalayer"
	"github.com/julianstephens/habitgarden/internal/entitlement"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/lifecycle"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/store"
	"github.com/julianstephens/habitgarden/internal/utils"
)

const maxNameLength = 50

// Context carries the collaborators of a Service.
type Context struct {
	Identity     models.Identity
	Store        *store.Store
	Repository   datalayer.Repository
	Entitlements *entitlement.Engine
	Clock        clock.Clock
}

type Service struct {
	env Context
}

func New(env Context) *Service {
	if env.Clock == nil {
		env.Clock = clock.System(nil)
	}
	if env.Entitlements == nil {
		env.Entitlements = entitlement.New(env.Clock)
	}
	if env.Identity.UserID == "" {
		env.Identity = models.Guest()
	}
	return &Service{env: env}
}

func (s *Service) Identity() models.Identity {
	return s.env.Identity
}

// decay applies missed-day health loss to h and persists any change.
// A failed write is logged and the decayed state is still returned.
func (s *Service) decay(ctx context.Context, h models.Habit) models.Habit {
	decayed, changed := lifecycle.CheckHealthDecay(h, s.env.Clock.Now())
	if !changed {
		return h
	}
	health, dead, streak := decayed.Health, decayed.IsDead, decayed.StreakCount
	patch := models.HabitPatch{
		Health:         &health,
		IsDead:         &dead,
		StreakCount:    &streak,
		DecayCheckedAt: decayed.DecayCheckedAt,
	}
	updated, err := s.env.Repository.UpdateHabit(ctx, h.ID, patch)
	if err != nil {
		logger.Warn("Failed to persist health decay", "habit", h.ID, "error", err)
		return decayed
	}
	if dead {
		logger.Info("Habit withered", "habit", h.ID, "name", h.Name)
	}
	return updated
}

// FetchAllHabits lists the user's habits after applying health decay.
func (s *Service) FetchAllHabits(ctx context.Context) ([]models.Habit, error) {
	habits, err := s.env.Repository.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		habits[i] = s.decay(ctx, habits[i])
	}
	return habits, nil
}

func (s *Service) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	h, err := s.env.Repository.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}
	return s.decay(ctx, h), nil
}

// FindHabitByName matches a trimmed, case-insensitive name.
func (s *Service) FindHabitByName(ctx context.Context, name string) (models.Habit, error) {
	habits, err := s.FetchAllHabits(ctx)
	if err != nil {
		return models.Habit{}, err
	}
	key := normalizeName(name)
	for _, h := range habits {
		if normalizeName(h.Name) == key {
			return h, nil
		}
	}
	return models.Habit{}, errors.NotFoundf("habit named %q", strings.TrimSpace(name))
}

// ResolveHabit accepts either a habit id or a habit name.
func (s *Service) ResolveHabit(ctx context.Context, ref string) (models.Habit, error) {
	h, err := s.GetHabit(ctx, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.FindHabitByName(ctx, ref)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidation("Habit name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", errors.NewValidation("Name too long")
	}
	return name, nil
}

func validateDraft(d *models.HabitDraft) error {
	name, err := validateName(d.Name)
	if err != nil {
		return err
	}
	d.Name = name

	if d.Theme == "" {
		d.Theme = models.DefaultTheme
	}
	if !d.Theme.Valid() {
		return errors.NewValidation(fmt.Sprintf("Unknown theme %q", d.Theme))
	}
	if d.ColorPalette != "" && !d.ColorPalette.Valid() {
		return errors.NewValidation(fmt.Sprintf("Unknown color palette %q", d.ColorPalette))
	}
	if d.GoalFrequency == "" {
		d.GoalFrequency = models.FrequencyDaily
	}
	if !d.GoalFrequency.Valid() {
		return errors.NewValidation(fmt.Sprintf("Unknown frequency %q", d.GoalFrequency))
	}
	if d.GoalFrequency == models.FrequencyCustom && d.CustomFrequency < 1 {
		return errors.NewValidation("Custom frequency must be at least 1 day")
	}
	if d.ReminderEnabled && d.ReminderTime != "" && !utils.ValidateTimeFormat(d.ReminderTime) {
		return errors.NewValidation(fmt.Sprintf("Invalid reminder time %q (expected HH:MM)", d.ReminderTime))
	}
	if d.AppBlocking != nil {
		return validateAppBlocking(*d.AppBlocking)
	}
	return nil
}

func validateAppBlocking(ab models.AppBlockSettings) error {
	if !ab.Enabled {
		return nil
	}
	switch ab.BlockType {
	case models.BlockDuringHabit, models.BlockUntilComplete:
	case models.BlockTimePeriod:
		if !utils.ValidateTimeFormat(ab.StartTime) || !utils.ValidateTimeFormat(ab.EndTime) {
			return errors.NewValidation("Time period blocking needs a start and end time (HH:MM)")
		}
	default:
		return errors.NewValidation(fmt.Sprintf("Unknown block type %q", ab.BlockType))
	}
	return nil
}

func denied(d entitlement.Decision) error {
	return &errors.ValidationError{Reason: d.Reason, CanWatchAds: d.CanWatchAds}
}

// CreateHabit validates the draft, then checks for a duplicate name, the
// monthly quota and the theme entitlement, in that order.
func (s *Service) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	if err := validateDraft(&draft); err != nil {
		return models.Habit{}, err
	}

	habits, err := s.env.Repository.ListHabits(ctx)
	if err != nil {
		return models.Habit{}, err
	}
	key := normalizeName(draft.Name)
	for _, h := range habits {
		if normalizeName(h.Name) == key {
			return models.Habit{}, errors.NewValidation("A habit with this name already exists. Please choose a different name.")
		}
	}

	prefs, err := s.Preferences()
	if err != nil {
		return models.Habit{}, err
	}
	if d := s.env.Entitlements.CanCreateHabit(prefs, habits); !d.Allowed {
		return models.Habit{}, denied(d)
	}
	if d := entitlement.CanUseTheme(prefs, draft.Theme); !d.Allowed {
		return models.Habit{}, denied(d)
	}
	if draft.AppBlocking != nil && draft.AppBlocking.Enabled {
		if d := entitlement.CanUseAppBlocking(prefs); !d.Allowed {
			return models.Habit{}, denied(d)
		}
	}

	if draft.CreatedMonth == "" {
		draft.CreatedMonth = s.env.Entitlements.CurrentMonth()
	}
	h, err := s.env.Repository.CreateHabit(ctx, draft)
	if err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit created", "habit", h.ID, "name", h.Name, "theme", h.Theme)
	return h, nil
}

// UpdateHabit applies user edits. Lifecycle fields go through CompleteHabit
// and ReviveHabit instead.
func (s *Service) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	if patch.IsEmpty() {
		return models.Habit{}, errors.NewValidation("Nothing to update")
	}
	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return models.Habit{}, err
		}
		patch.Name = &name
	}
	if patch.ColorPalette != nil && !patch.ColorPalette.Valid() {
		return models.Habit{}, errors.NewValidation(fmt.Sprintf("Unknown color palette %q", *patch.ColorPalette))
	}
	if patch.GoalFrequency != nil && !patch.GoalFrequency.Valid() {
		return models.Habit{}, errors.NewValidation(fmt.Sprintf("Unknown frequency %q", *patch.GoalFrequency))
	}
	if patch.ReminderTime != nil && *patch.ReminderTime != "" && !utils.ValidateTimeFormat(*patch.ReminderTime) {
		return models.Habit{}, errors.NewValidation(fmt.Sprintf("Invalid reminder time %q (expected HH:MM)", *patch.ReminderTime))
	}
	if patch.Theme != nil {
		if !patch.Theme.Valid() {
			return models.Habit{}, errors.NewValidation(fmt.Sprintf("Unknown theme %q", *patch.Theme))
		}
		prefs, err := s.Preferences()
		if err != nil {
			return models.Habit{}, err
		}
		if d := entitlement.CanUseTheme(prefs, *patch.Theme); !d.Allowed {
			return models.Habit{}, denied(d)
		}
	}
	return s.env.Repository.UpdateHabit(ctx, id, patch)
}

func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	if err := s.env.Repository.DeleteHabit(ctx, id); err != nil {
		return err
	}
	logger.Info("Habit deleted", "habit", id)
	return nil
}

type CompleteOptions struct {
	Notes string
	// Force allows a second completion on the same day.
	Force bool
}

// CompletionResult is a persisted completion and the habit state after it.
type CompletionResult struct {
	Habit          models.Habit
	Completion     models.Completion
	LeveledUp      bool
	HealthRestored int
}

// CompleteHabit records a completion. Decay runs first, so a habit that
// withered since the last visit cannot be completed.
func (s *Service) CompleteHabit(ctx context.Context, id string, opts CompleteOptions) (CompletionResult, error) {
	h, err := s.GetHabit(ctx, id)
	if err != nil {
		return CompletionResult{}, err
	}
	if h.IsDead {
		return CompletionResult{}, errors.InvalidStatef("habit %q has withered; revive it first", h.Name)
	}

	completions, err := s.env.Repository.ListCompletions(ctx, h.ID)
	if err != nil {
		return CompletionResult{}, err
	}
	now := s.env.Clock.Now()
	if !opts.Force && lifecycle.CompletedToday(completions, now) {
		return CompletionResult{}, errors.InvalidStatef("habit %q was already completed today", h.Name)
	}

	outcome, err := lifecycle.CompleteHabit(h, now, len(completions), opts.Notes)
	if err != nil {
		return CompletionResult{}, err
	}
	c, err := s.env.Repository.RecordCompletion(ctx, outcome.Completion)
	if err != nil {
		return CompletionResult{}, err
	}
	updated, err := s.env.Repository.UpdateHabit(ctx, h.ID, models.LifecyclePatch(outcome.Habit))
	if err != nil {
		return CompletionResult{}, err
	}

	logger.Info("Habit completed", "habit", h.ID, "streak", updated.StreakCount, "stage", updated.CurrentStage)
	return CompletionResult{
		Habit:          updated,
		Completion:     c,
		LeveledUp:      outcome.LeveledUp,
		HealthRestored: outcome.HealthRestored,
	}, nil
}

func (s *Service) ReviveHabit(ctx context.Context, id string) (models.Habit, error) {
	h, err := s.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}
	revived, err := lifecycle.ReviveHabit(h, s.env.Clock.Now())
	if err != nil {
		return models.Habit{}, err
	}
	updated, err := s.env.Repository.UpdateHabit(ctx, h.ID, models.LifecyclePatch(revived))
	if err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit revived", "habit", h.ID)
	return updated, nil
}

// History returns a habit's completions, newest first.
func (s *Service) History(ctx context.Context, id string) ([]models.Completion, error) {
	return s.env.Repository.ListCompletions(ctx, id)
}

func (s *Service) DeleteCompletion(ctx context.Context, id string) error {
	return s.env.Repository.DeleteCompletion(ctx, id)
}

func (s *Service) Stats(ctx context.Context, id string) (lifecycle.Stats, error) {
	h, err := s.GetHabit(ctx, id)
	if err != nil {
		return lifecycle.Stats{}, err
	}
	completions, err := s.env.Repository.ListCompletions(ctx, h.ID)
	if err != nil {
		return lifecycle.Stats{}, err
	}
	return lifecycle.ComputeStats(h, completions, s.env.Clock.Now()), nil
}

// SetAppBlocking replaces the app-blocking settings of a habit. Enabling
// blocking requires premium; disabling never does.
func (s *Service) SetAppBlocking(ctx context.Context, id string, settings models.AppBlockSettings) (models.Habit, error) {
	if err := validateAppBlocking(settings); err != nil {
		return models.Habit{}, err
	}
	if settings.Enabled {
		prefs, err := s.Preferences()
		if err != nil {
			return models.Habit{}, err
		}
		if d := entitlement.CanUseAppBlocking(prefs); !d.Allowed {
			return models.Habit{}, denied(d)
		}
	}
	return s.env.Repository.UpdateHabit(ctx, id, models.HabitPatch{AppBlocking: &settings})
}
