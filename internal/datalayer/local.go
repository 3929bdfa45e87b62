package datalayer

import (
	"context"

	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/store"
)

// Local is a Repository over one user's namespace in the persistence store.
type Local struct {
	store *store.Store
	user  string
}

func NewLocal(s *store.Store, user string) *Local {
	return &Local{store: s, user: user}
}

func (l *Local) User() string {
	return l.user
}

func (l *Local) ListHabits(ctx context.Context) ([]models.Habit, error) {
	return l.store.Habits(l.user)
}

func (l *Local) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	return l.store.Habit(l.user, id)
}

func (l *Local) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	return l.store.CreateHabit(l.user, draft)
}

func (l *Local) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	return l.store.UpdateHabit(l.user, id, patch)
}

func (l *Local) DeleteHabit(ctx context.Context, id string) error {
	return l.store.DeleteHabit(l.user, id)
}

func (l *Local) ListCompletions(ctx context.Context, habitID string) ([]models.Completion, error) {
	return l.store.CompletionsForHabit(l.user, habitID)
}

func (l *Local) RecordCompletion(ctx context.Context, draft models.CompletionDraft) (models.Completion, error) {
	return l.store.CreateCompletion(l.user, draft)
}

func (l *Local) DeleteCompletion(ctx context.Context, id string) error {
	return l.store.DeleteCompletion(l.user, id)
}

// PutHabit caches a server-side habit under its own id.
func (l *Local) PutHabit(h models.Habit) error {
	return l.store.PutHabit(l.user, h)
}

// PutCompletion caches a server-side completion under its own id.
func (l *Local) PutCompletion(c models.Completion) error {
	return l.store.PutCompletion(l.user, c)
}

// PruneHabits drops cached habits missing from keep, except pending ones.
func (l *Local) PruneHabits(keep map[string]bool) ([]string, error) {
	return l.store.PruneHabits(l.user, keep)
}
