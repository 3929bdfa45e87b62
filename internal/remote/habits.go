package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list habits", http.MethodGet, "/api/habits", nil, &raw); err != nil {
		return nil, err
	}
	habits := []models.Habit{}
	if err := decodeList(raw, "habits", &habits); err != nil {
		return nil, fmt.Errorf("list habits: failed to decode response: %v: %w", err, errors.ErrRemoteSync)
	}
	return habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	var h models.Habit
	if err := c.do(ctx, "create habit", http.MethodPost, "/api/habits", draft, &h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (c *Client) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	var h models.Habit
	if err := c.do(ctx, "update habit", http.MethodPut, "/api/habits/"+escape(id), patch, &h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, "delete habit", http.MethodDelete, "/api/habits/"+escape(id), nil, nil)
}

func (c *Client) ListCompletions(ctx context.Context, habitID string) ([]models.Completion, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list completions", http.MethodGet, "/api/habits/"+escape(habitID)+"/completions", nil, &raw); err != nil {
		return nil, err
	}
	completions := []models.Completion{}
	if err := decodeList(raw, "completions", &completions); err != nil {
		return nil, fmt.Errorf("list completions: failed to decode response: %v: %w", err, errors.ErrRemoteSync)
	}
	return completions, nil
}

func (c *Client) RecordCompletion(ctx context.Context, draft models.CompletionDraft) (models.Completion, error) {
	var out models.Completion
	if err := c.do(ctx, "record completion", http.MethodPost, "/api/completions", draft, &out); err != nil {
		return models.Completion{}, err
	}
	return out, nil
}

func (c *Client) DeleteCompletion(ctx context.Context, id string) error {
	return c.do(ctx, "delete completion", http.MethodDelete, "/api/completions/"+escape(id), nil, nil)
}
