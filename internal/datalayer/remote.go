package datalayer

import (
	"context"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/remote"
)

// Remote is a Repository over the sync API.
type Remote struct {
	client *remote.Client
}

func NewRemote(c *remote.Client) *Remote {
	return &Remote{client: c}
}

func (r *Remote) ListHabits(ctx context.Context) ([]models.Habit, error) {
	return r.client.ListHabits(ctx)
}

// GetHabit finds id in the habit list; the API has no single-habit endpoint.
func (r *Remote) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	habits, err := r.client.ListHabits(ctx)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Habit{}, errors.NotFoundf("habit %s", id)
}

func (r *Remote) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	return r.client.CreateHabit(ctx, draft)
}

func (r *Remote) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	return r.client.UpdateHabit(ctx, id, patch)
}

func (r *Remote) DeleteHabit(ctx context.Context, id string) error {
	return r.client.DeleteHabit(ctx, id)
}

func (r *Remote) ListCompletions(ctx context.Context, habitID string) ([]models.Completion, error) {
	return r.client.ListCompletions(ctx, habitID)
}

func (r *Remote) RecordCompletion(ctx context.Context, draft models.CompletionDraft) (models.Completion, error) {
	return r.client.RecordCompletion(ctx, draft)
}

func (r *Remote) DeleteCompletion(ctx context.Context, id string) error {
	return r.client.DeleteCompletion(ctx, id)
}
