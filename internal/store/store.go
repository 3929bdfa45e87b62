// Package store keeps habits, completions and preferences as namespaced JSON
// collections on top of a storage.Backend. Every collection is keyed by user
// id (an email, or "guest" when signed out).
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/lifecycle"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/storage"
)

type Store struct {
	backend storage.Backend
	clock   clock.Clock
	newID   func() string

	mu sync.Mutex
}

func New(backend storage.Backend, c clock.Clock) *Store {
	return &Store{
		backend: backend,
		clock:   c,
		newID:   uuid.NewString,
	}
}

// Backend returns the underlying key-value backend.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Key builds the "<collection>_<user>" key for a collection.
func Key(collection, user string) string {
	if user == "" {
		user = constants.GuestUserID
	}
	return collection + "_" + user
}

// read decodes key into v. A missing key leaves v untouched and reports false.
func (s *Store) read(key string, v interface{}) (bool, error) {
	data, err := s.backend.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) write(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Set(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadHabits(user string) ([]models.Habit, error) {
	habits := []models.Habit{}
	if _, err := s.read(Key(constants.CollectionHabits, user), &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *Store) saveHabits(user string, habits []models.Habit) error {
	return s.write(Key(constants.CollectionHabits, user), habits)
}

func (s *Store) loadCompletions(user string) ([]models.Completion, error) {
	completions := []models.Completion{}
	if _, err := s.read(Key(constants.CollectionCompletions, user), &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (s *Store) saveCompletions(user string, completions []models.Completion) error {
	return s.write(Key(constants.CollectionCompletions, user), completions)
}

// Habits returns every habit of user in insertion order.
func (s *Store) Habits(user string) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHabits(user)
}

func (s *Store) Habit(user, id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
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

// CreateHabit stores a new habit built from draft with a fresh id.
func (s *Store) CreateHabit(user string, draft models.HabitDraft) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return models.Habit{}, err
	}
	h := lifecycle.NewHabit(draft, s.clock.Now())
	h.ID = s.newID()
	habits = append(habits, h)
	if err := s.saveHabits(user, habits); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// PutHabit inserts h or replaces the habit with the same id, keeping h as given.
func (s *Store) PutHabit(user string, h models.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("habit id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return err
	}
	replaced := false
	for i := range habits {
		if habits[i].ID == h.ID {
			habits[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		habits = append(habits, h)
	}
	return s.saveHabits(user, habits)
}

// UpdateHabit applies patch and refreshes UpdatedAt.
func (s *Store) UpdateHabit(user, id string, patch models.HabitPatch) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return models.Habit{}, err
	}
	for i := range habits {
		if habits[i].ID != id {
			continue
		}
		patch.Apply(&habits[i])
		habits[i].UpdatedAt = s.clock.Now()
		if err := s.saveHabits(user, habits); err != nil {
			return models.Habit{}, err
		}
		return habits[i], nil
	}
	return models.Habit{}, errors.NotFoundf("habit %s", id)
}

// DeleteHabit removes the habit and every completion that references it.
func (s *Store) DeleteHabit(user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return err
	}
	kept := habits[:0]
	for _, h := range habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(habits) {
		return errors.NotFoundf("habit %s", id)
	}
	if err := s.saveHabits(user, kept); err != nil {
		return err
	}
	return s.dropCompletions(user, map[string]bool{id: true})
}

// PruneHabits removes the habits of user that are neither in keep nor
// pending, along with their completions. It returns the removed ids.
func (s *Store) PruneHabits(user string, keep map[string]bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return nil, err
	}
	var removed []string
	gone := map[string]bool{}
	kept := habits[:0]
	for _, h := range habits {
		if keep[h.ID] || h.Pending {
			kept = append(kept, h)
			continue
		}
		removed = append(removed, h.ID)
		gone[h.ID] = true
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.saveHabits(user, kept); err != nil {
		return nil, err
	}
	return removed, s.dropCompletions(user, gone)
}

// dropCompletions deletes the completions of the given habits. Callers hold s.mu.
func (s *Store) dropCompletions(user string, habitIDs map[string]bool) error {
	completions, err := s.loadCompletions(user)
	if err != nil {
		return err
	}
	kept := completions[:0]
	for _, c := range completions {
		if !habitIDs[c.HabitID] {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(completions) {
		return nil
	}
	return s.saveCompletions(user, kept)
}

func (s *Store) Completions(user string) ([]models.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCompletions(user)
}

// CompletionsForHabit returns the habit's completions, newest first.
func (s *Store) CompletionsForHabit(user, habitID string) ([]models.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionsForHabit(user, habitID)
}

func (s *Store) completionsForHabit(user, habitID string) ([]models.Completion, error) {
	all, err := s.loadCompletions(user)
	if err != nil {
		return nil, err
	}
	out := []models.Completion{}
	for _, c := range all {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

// CompletionsInRange returns the habit's completions with start <= completedAt <= end,
// newest first.
func (s *Store) CompletionsInRange(user, habitID string, start, end time.Time) ([]models.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.completionsForHabit(user, habitID)
	if err != nil {
		return nil, err
	}
	out := []models.Completion{}
	for _, c := range all {
		if !c.CompletedAt.Before(start) && !c.CompletedAt.After(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateCompletion(user string, draft models.CompletionDraft) (models.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completions, err := s.loadCompletions(user)
	if err != nil {
		return models.Completion{}, err
	}
	c := models.Completion{
		ID:          s.newID(),
		HabitID:     draft.HabitID,
		CompletedAt: draft.CompletedAt,
		Notes:       draft.Notes,
		CreatedAt:   s.clock.Now(),
	}
	completions = append(completions, c)
	if err := s.saveCompletions(user, completions); err != nil {
		return models.Completion{}, err
	}
	return c, nil
}

// PutCompletion inserts c or replaces the completion with the same id.
func (s *Store) PutCompletion(user string, c models.Completion) error {
	if c.ID == "" {
		return fmt.Errorf("completion id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	completions, err := s.loadCompletions(user)
	if err != nil {
		return err
	}
	for i := range completions {
		if completions[i].ID == c.ID {
			completions[i] = c
			return s.saveCompletions(user, completions)
		}
	}
	return s.saveCompletions(user, append(completions, c))
}

func (s *Store) DeleteCompletion(user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	completions, err := s.loadCompletions(user)
	if err != nil {
		return err
	}
	kept := completions[:0]
	for _, c := range completions {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(completions) {
		return errors.NotFoundf("completion %s", id)
	}
	return s.saveCompletions(user, kept)
}
