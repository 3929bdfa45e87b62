package store

import (
	"testing"
	"time"

	"github.com/julianstephens/habitgarden/internal/models"
)

func TestPreferencesDefaults(t *testing.T) {
	s, _, backend := setupTestStore(t)

	prefs, err := s.Preferences("guest")
	if err != nil {
		t.Fatal(err)
	}
	if prefs.IsPremium || prefs.AdEarnedSlots != 0 || !prefs.StreaksEnabled {
		t.Errorf("defaults = %+v", prefs)
	}
	if prefs.PurchasedSkins == nil {
		t.Error("PurchasedSkins should be an empty slice")
	}
	if keys, _ := backend.Keys("userPreferences_"); len(keys) != 0 {
		t.Errorf("defaults were persisted: %v", keys)
	}
}

func TestUpdateAndResetPreferences(t *testing.T) {
	s, clk, _ := setupTestStore(t)
	clk.Advance(time.Minute)

	premium := true
	slots := 2
	prefs, err := s.UpdatePreferences("a@example.com", models.PreferencesPatch{IsPremium: &premium, AdEarnedSlots: &slots})
	if err != nil {
		t.Fatal(err)
	}
	if !prefs.IsPremium || prefs.AdEarnedSlots != 2 {
		t.Errorf("UpdatePreferences() = %+v", prefs)
	}
	if !prefs.UpdatedAt.Equal(testNow.Add(time.Minute)) {
		t.Errorf("UpdatedAt = %v", prefs.UpdatedAt)
	}

	again, _ := s.Preferences("a@example.com")
	if again.ID != prefs.ID || !again.IsPremium {
		t.Errorf("Preferences() = %+v", again)
	}
	guest, _ := s.Preferences("guest")
	if guest.IsPremium {
		t.Error("guest preferences should be independent")
	}

	if err := s.ResetPreferences("a@example.com"); err != nil {
		t.Fatal(err)
	}
	reset, _ := s.Preferences("a@example.com")
	if reset.IsPremium {
		t.Error("ResetPreferences should restore defaults")
	}
}

func TestCurrentUser(t *testing.T) {
	s, _, _ := setupTestStore(t)

	if email, err := s.CurrentUser(); err != nil || email != "" {
		t.Errorf("CurrentUser() = %q, %v", email, err)
	}
	if err := s.SetCurrentUser("a@example.com"); err != nil {
		t.Fatal(err)
	}
	if email, _ := s.CurrentUser(); email != "a@example.com" {
		t.Errorf("CurrentUser() = %q", email)
	}
	if err := s.ClearCurrentUser(); err != nil {
		t.Fatal(err)
	}
	if email, _ := s.CurrentUser(); email != "" {
		t.Errorf("CurrentUser() after clear = %q", email)
	}
	if err := s.SetCurrentUser(""); err == nil {
		t.Error("expected error for empty email")
	}
}
