// Package datalayer routes habit and completion operations between the local
// store and the remote API depending on whether the user is signed in.
package datalayer

import (
	"context"

	"github.com/julianstephens/habitgarden/internal/models"
)

// Repository is the habit and completion surface shared by the local store,
// the remote API and the Reconciler that combines them.
type Repository interface {
	ListHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error)
	UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string) error

	// ListCompletions returns a habit's completions, newest first.
	ListCompletions(ctx context.Context, habitID string) ([]models.Completion, error)
	RecordCompletion(ctx context.Context, draft models.CompletionDraft) (models.Completion, error)
	DeleteCompletion(ctx context.Context, id string) error
}
