package store

import (
	"fmt"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/storage"
)

func (s *Store) loadPreferences(user string) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	found, err := s.read(Key(constants.CollectionUserPreferences, user), &prefs)
	if err != nil {
		return models.UserPreferences{}, err
	}
	if !found {
		return models.DefaultPreferences(s.newID(), s.clock.Now()), nil
	}
	if prefs.PurchasedSkins == nil {
		prefs.PurchasedSkins = []string{}
	}
	if prefs.PurchasedBackgrounds == nil {
		prefs.PurchasedBackgrounds = []string{}
	}
	if prefs.PurchasedAnimations == nil {
		prefs.PurchasedAnimations = []string{}
	}
	return prefs, nil
}

// Preferences returns the stored preferences of user, or defaults when none
// have been saved. Defaults are not written back.
func (s *Store) Preferences(user string) (models.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPreferences(user)
}

func (s *Store) UpdatePreferences(user string, patch models.PreferencesPatch) (models.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.loadPreferences(user)
	if err != nil {
		return models.UserPreferences{}, err
	}
	patch.Apply(&prefs)
	prefs.UpdatedAt = s.clock.Now()
	if err := s.write(Key(constants.CollectionUserPreferences, user), prefs); err != nil {
		return models.UserPreferences{}, err
	}
	return prefs, nil
}

func (s *Store) ResetPreferences(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Delete(Key(constants.CollectionUserPreferences, user))
}

// CurrentUser returns the email of the signed-in account, or "" when signed out.
func (s *Store) CurrentUser() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var email string
	if _, err := s.read(constants.CurrentUserKey, &email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) SetCurrentUser(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(constants.CurrentUserKey, email)
}

func (s *Store) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(constants.CurrentUserKey); err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	return nil
}
