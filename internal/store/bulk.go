package store

import (
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
)

// ExportVersion is bumped when the Export layout changes.
const ExportVersion = 1

// Export is a portable snapshot of one user's garden.
type Export struct {
	Version         int                     `json:"version"`
	ExportedAt      time.Time               `json:"exportedAt"`
	Habits          []models.Habit          `json:"habits,omitempty"`
	Completions     []models.Completion     `json:"completions,omitempty"`
	UserPreferences *models.UserPreferences `json:"userPreferences,omitempty"`
}

func (s *Store) Export(user string) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.loadHabits(user)
	if err != nil {
		return Export{}, err
	}
	completions, err := s.loadCompletions(user)
	if err != nil {
		return Export{}, err
	}
	prefs, err := s.loadPreferences(user)
	if err != nil {
		return Export{}, err
	}
	return Export{
		Version:         ExportVersion,
		ExportedAt:      s.clock.Now(),
		Habits:          habits,
		Completions:     completions,
		UserPreferences: &prefs,
	}, nil
}

// Import replaces each collection present in data. Absent collections are kept.
func (s *Store) Import(user string, data Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Habits != nil {
		if err := s.saveHabits(user, data.Habits); err != nil {
			return err
		}
	}
	if data.Completions != nil {
		if err := s.saveCompletions(user, data.Completions); err != nil {
			return err
		}
	}
	if data.UserPreferences != nil {
		if err := s.write(Key(constants.CollectionUserPreferences, user), data.UserPreferences); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every collection of user.
func (s *Store) Clear(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range []string{constants.CollectionHabits, constants.CollectionCompletions, constants.CollectionUserPreferences} {
		if err := s.backend.Delete(Key(c, user)); err != nil {
			return err
		}
	}
	return nil
}

// Users lists every user id with stored habits.
func (s *Store) Users() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := constants.CollectionHabits + "_"
	keys, err := s.backend.Keys(prefix)
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, k[len(prefix):])
	}
	return users, nil
}
