package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHabitUnmarshalMissingHealth(t *testing.T) {
	raw := `{"id":"h1","name":"Read","theme":"rose","goalFrequency":"daily",
		"currentStage":2,"streakCount":4,"isDead":false,
		"createdAt":"2025-01-01T08:00:00.000Z","updatedAt":"2025-01-02T08:00:00.000Z",
		"lastCompletedAt":"2025-01-02T08:00:00.000Z","createdMonth":"2025-01"}`

	var h Habit
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if h.Health != 100 {
		t.Errorf("Health = %d, want 100 for legacy record", h.Health)
	}
	if h.CurrentStage != 2 || h.StreakCount != 4 {
		t.Errorf("stage/streak = %d/%d, want 2/4", h.CurrentStage, h.StreakCount)
	}
	if h.LastCompletedAt == nil || !h.LastCompletedAt.Equal(time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("LastCompletedAt = %v, want 2025-01-02T08:00Z", h.LastCompletedAt)
	}
}

func TestHabitUnmarshalZeroHealthKept(t *testing.T) {
	var h Habit
	if err := json.Unmarshal([]byte(`{"id":"h1","health":0,"isDead":true}`), &h); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if h.Health != 0 || !h.IsDead {
		t.Errorf("got health=%d dead=%v, want 0/true", h.Health, h.IsDead)
	}
}

func TestHabitPatchApply(t *testing.T) {
	h := Habit{ID: "h1", Name: "Read", Theme: ThemeRose, Health: 40, StreakCount: 3}
	name := "Read more"
	health := 60
	p := HabitPatch{Name: &name, Health: &health}
	p.Apply(&h)

	if h.Name != "Read more" || h.Health != 60 {
		t.Errorf("patched habit = %+v", h)
	}
	if h.StreakCount != 3 || h.Theme != ThemeRose {
		t.Errorf("unset fields changed: %+v", h)
	}
	if (HabitPatch{}).IsEmpty() != true || p.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestLifecyclePatchCopiesTime(t *testing.T) {
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	h := Habit{CurrentStage: 1, StreakCount: 2, Health: 80, LastCompletedAt: &ts}
	p := LifecyclePatch(h)

	ts2 := ts.Add(time.Hour)
	*h.LastCompletedAt = ts2
	if p.LastCompletedAt.Equal(ts2) {
		t.Error("patch must not alias the habit's timestamp")
	}
	if *p.CurrentStage != 1 || *p.StreakCount != 2 || *p.Health != 80 || *p.IsDead {
		t.Errorf("unexpected patch values")
	}
}

func TestThemes(t *testing.T) {
	if got := len(AllThemes()); got != 13 {
		t.Fatalf("len(AllThemes()) = %d, want 13", got)
	}
	if len(FreeThemes) != 6 {
		t.Errorf("len(FreeThemes) = %d, want 6", len(FreeThemes))
	}
	if ThemeRose.IsPremium() {
		t.Error("rose must be free")
	}
	if !ThemeLilyOfValley.IsPremium() {
		t.Error("lily-of-valley must be premium")
	}
	if _, err := ParseTheme(" Tulip "); err != nil {
		t.Errorf("ParseTheme(Tulip) failed: %v", err)
	}
	if _, err := ParseTheme("cactus"); err == nil {
		t.Error("expected error for unknown theme")
	}
	if got := ThemeSunflower.Title(); got != "Sunflower" {
		t.Errorf("Title() = %q", got)
	}
}

func TestStageName(t *testing.T) {
	tests := []struct {
		theme Theme
		stage int
		want  string
	}{
		{ThemeRose, 0, "Seed"},
		{ThemeRose, 7, "Rose Garden"},
		{ThemeLilyOfValley, 5, "Bells Forming"},
		{Theme("plant"), 3, "Young Plant"},
		{ThemeTulip, 8, "Unknown"},
		{ThemeTulip, -1, "Unknown"},
	}
	for _, tt := range tests {
		if got := StageName(tt.theme, tt.stage); got != tt.want {
			t.Errorf("StageName(%s, %d) = %q, want %q", tt.theme, tt.stage, got, tt.want)
		}
	}
}

func TestPreferencesPatchApply(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prefs := DefaultPreferences("p1", now)
	if !prefs.StreaksEnabled {
		t.Fatal("streaks should default to enabled")
	}

	slots, tries := 1, 1
	garden := "Backyard"
	PreferencesPatch{AdEarnedSlots: &slots, AdTriesUsed: &tries, GardenName: &garden, PurchasedSkins: []string{"golden"}}.Apply(&prefs)

	if prefs.AdEarnedSlots != 1 || prefs.AdTriesUsed != 1 || prefs.GardenName != "Backyard" {
		t.Errorf("patch not applied: %+v", prefs)
	}
	if !prefs.HasPurchased(ItemSkin, "golden") || prefs.HasPurchased(ItemBackground, "golden") {
		t.Error("HasPurchased mismatch")
	}
}

func TestParsePremiumPlan(t *testing.T) {
	if _, err := ParsePremiumPlan("yearly"); err != nil {
		t.Errorf("ParsePremiumPlan(yearly) failed: %v", err)
	}
	if _, err := ParsePremiumPlan("weekly"); err == nil {
		t.Error("expected error for weekly plan")
	}
}
