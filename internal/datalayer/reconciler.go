package datalayer

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
)

// Warning reports a remote failure that was absorbed by falling back to local state.
type Warning struct {
	Op  string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: using local data (%v)", w.Op, w.Err)
}

type Options struct {
	// Authenticated routes operations through the remote API.
	Authenticated bool
	// ForceLocalOnly keeps everything local even when authenticated.
	ForceLocalOnly bool
	// OnWarning receives every fallback. Optional.
	OnWarning func(Warning)
}

// Reconciler is the Repository the rest of the app uses. Anonymous users only
// touch the local store. Signed-in users treat the server as authoritative
// and fall back to local data when it cannot be reached, except for deletes,
// which fail instead.
type Reconciler struct {
	local  *Local
	remote Repository
	opts   Options
}

func NewReconciler(local *Local, remote Repository, opts Options) *Reconciler {
	return &Reconciler{local: local, remote: remote, opts: opts}
}

// Synced reports whether operations go to the remote API.
func (r *Reconciler) Synced() bool {
	return r.opts.Authenticated && !r.opts.ForceLocalOnly && r.remote != nil
}

func (r *Reconciler) warn(op string, err error) {
	logger.Warn("Remote sync failed, falling back to local data", "op", op, "error", err)
	if r.opts.OnWarning != nil {
		r.opts.OnWarning(Warning{Op: op, Err: err})
	}
}

func (r *Reconciler) ListHabits(ctx context.Context) ([]models.Habit, error) {
	if !r.Synced() {
		return r.local.ListHabits(ctx)
	}
	habits, err := r.remote.ListHabits(ctx)
	if err != nil {
		r.warn("list habits", err)
		return r.local.ListHabits(ctx)
	}
	keep := make(map[string]bool, len(habits))
	for _, h := range habits {
		keep[h.ID] = true
		if err := r.local.PutHabit(h); err != nil {
			logger.Warn("Failed to cache remote habit", "id", h.ID, "error", err)
		}
	}
	// Habits deleted on another device leave the cache here.
	removed, err := r.local.PruneHabits(keep)
	if err != nil {
		logger.Warn("Failed to prune local habits", "error", err)
	} else if len(removed) > 0 {
		logger.Debug("Pruned habits missing on the server", "ids", removed)
	}
	return habits, nil
}

func (r *Reconciler) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	if !r.Synced() {
		return r.local.GetHabit(ctx, id)
	}
	h, err := r.remote.GetHabit(ctx, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return models.Habit{}, err
		}
		r.warn("get habit", err)
		return r.local.GetHabit(ctx, id)
	}
	if err := r.local.PutHabit(h); err != nil {
		logger.Warn("Failed to cache remote habit", "id", h.ID, "error", err)
	}
	return h, nil
}

func (r *Reconciler) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	if !r.Synced() {
		return r.local.CreateHabit(ctx, draft)
	}
	h, err := r.remote.CreateHabit(ctx, draft)
	if err != nil {
		r.warn("create habit", err)
		created, err := r.local.CreateHabit(ctx, draft)
		if err != nil {
			return models.Habit{}, err
		}
		created.Pending = true
		if err := r.local.PutHabit(created); err != nil {
			return models.Habit{}, err
		}
		return created, nil
	}
	if err := r.local.PutHabit(h); err != nil {
		logger.Warn("Failed to cache remote habit", "id", h.ID, "error", err)
	}
	return h, nil
}

// UpdateHabit writes locally first, then pushes to the server. A server
// answer replaces the local copy.
func (r *Reconciler) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	local, localErr := r.local.UpdateHabit(ctx, id, patch)
	if !r.Synced() {
		return local, localErr
	}

	h, err := r.remote.UpdateHabit(ctx, id, patch)
	if err != nil {
		if localErr != nil {
			return models.Habit{}, localErr
		}
		r.warn("update habit", err)
		return local, nil
	}
	if err := r.local.PutHabit(h); err != nil {
		logger.Warn("Failed to cache remote habit", "id", h.ID, "error", err)
	}
	return h, nil
}

func (r *Reconciler) DeleteHabit(ctx context.Context, id string) error {
	if !r.Synced() {
		return r.local.DeleteHabit(ctx, id)
	}
	if err := r.remote.DeleteHabit(ctx, id); err != nil {
		return remoteSyncError("delete habit", err)
	}
	if err := r.local.DeleteHabit(ctx, id); err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	return nil
}

func (r *Reconciler) ListCompletions(ctx context.Context, habitID string) ([]models.Completion, error) {
	if !r.Synced() {
		return r.local.ListCompletions(ctx, habitID)
	}
	completions, err := r.remote.ListCompletions(ctx, habitID)
	if err != nil {
		r.warn("list completions", err)
		return r.local.ListCompletions(ctx, habitID)
	}
	for _, c := range completions {
		if err := r.local.PutCompletion(c); err != nil {
			logger.Warn("Failed to cache remote completion", "id", c.ID, "error", err)
		}
	}
	sort.SliceStable(completions, func(i, j int) bool {
		return completions[i].CompletedAt.After(completions[j].CompletedAt)
	})
	return completions, nil
}

func (r *Reconciler) RecordCompletion(ctx context.Context, draft models.CompletionDraft) (models.Completion, error) {
	if !r.Synced() {
		return r.local.RecordCompletion(ctx, draft)
	}
	c, err := r.remote.RecordCompletion(ctx, draft)
	if err != nil {
		r.warn("record completion", err)
		return r.local.RecordCompletion(ctx, draft)
	}
	if err := r.local.PutCompletion(c); err != nil {
		logger.Warn("Failed to cache remote completion", "id", c.ID, "error", err)
	}
	return c, nil
}

func (r *Reconciler) DeleteCompletion(ctx context.Context, id string) error {
	if !r.Synced() {
		return r.local.DeleteCompletion(ctx, id)
	}
	if err := r.remote.DeleteCompletion(ctx, id); err != nil {
		return remoteSyncError("delete completion", err)
	}
	if err := r.local.DeleteCompletion(ctx, id); err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	return nil
}

func remoteSyncError(op string, err error) error {
	if errors.Is(err, errors.ErrRemoteSync) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %v: %w", op, err, errors.ErrRemoteSync)
}
