package lifecycle

import (
	"testing"
	"time"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

var day0 = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func at(day int, hour int) time.Time {
	return time.Date(2025, 4, 1+day, hour, 0, 0, 0, time.UTC)
}

func newTestHabit() models.Habit {
	h := NewHabit(models.HabitDraft{Name: "Read"}, day0)
	h.ID = "habit-1"
	return h
}

// complete runs CompleteHabit and fails the test on error.
func complete(t *testing.T, h models.Habit, now time.Time, prior int) Outcome {
	t.Helper()
	out, err := CompleteHabit(h, now, prior, "")
	if err != nil {
		t.Fatalf("CompleteHabit failed: %v", err)
	}
	return out
}

func TestNewHabitInitialState(t *testing.T) {
	h := NewHabit(models.HabitDraft{Name: "Walk"}, day0)

	if h.CurrentStage != 0 || h.StreakCount != 0 || h.Health != 100 || h.IsDead {
		t.Errorf("initial state = stage %d streak %d health %d dead %v", h.CurrentStage, h.StreakCount, h.Health, h.IsDead)
	}
	if h.CreatedMonth != "2025-04" {
		t.Errorf("CreatedMonth = %q, want 2025-04", h.CreatedMonth)
	}
	if h.Theme != models.ThemeRose || h.GoalFrequency != models.FrequencyDaily || h.ColorPalette != models.PalettePastelPink {
		t.Errorf("defaults not applied: theme %q freq %q palette %q", h.Theme, h.GoalFrequency, h.ColorPalette)
	}
	if !h.CreatedAt.Equal(day0) || !h.UpdatedAt.Equal(day0) {
		t.Error("timestamps should equal creation time")
	}
}

func TestStreakContinuity(t *testing.T) {
	tests := []struct {
		name       string
		second     time.Time
		wantStreak int
	}{
		{"same calendar day", at(0, 21), 1},
		{"next day", at(1, 7), 2},
		{"next day just after midnight", time.Date(2025, 4, 2, 0, 1, 0, 0, time.UTC), 2},
		{"skipped a day", at(2, 9), 1},
		{"skipped a week", at(8, 9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := complete(t, newTestHabit(), at(0, 8), 0)
			if first.Habit.StreakCount != 1 {
				t.Fatalf("first completion streak = %d, want 1", first.Habit.StreakCount)
			}
			second := complete(t, first.Habit, tt.second, 1)
			if second.Habit.StreakCount != tt.wantStreak {
				t.Errorf("streak = %d, want %d", second.Habit.StreakCount, tt.wantStreak)
			}
		})
	}
}

func TestSameDayKeepsExistingStreak(t *testing.T) {
	last := at(4, 8)
	h := newTestHabit()
	h.StreakCount = 5
	h.LastCompletedAt = &last

	out := complete(t, h, at(4, 22), 10)
	if out.Habit.StreakCount != 5 {
		t.Errorf("streak = %d, want unchanged 5", out.Habit.StreakCount)
	}
}

func TestThreeConsecutiveDays(t *testing.T) {
	h := newTestHabit()
	for i := 0; i < 3; i++ {
		h = complete(t, h, at(i, 8), i).Habit
	}
	if h.StreakCount != 3 {
		t.Errorf("streak = %d, want 3", h.StreakCount)
	}
	if h.CurrentStage != 0 {
		t.Errorf("stage = %d, want 0 after 3 completions", h.CurrentStage)
	}
}

func TestStageProgression(t *testing.T) {
	h := newTestHabit()
	var leveled []int
	for i := 0; i < 7; i++ {
		out := complete(t, h, at(i, 8), i)
		if out.LeveledUp {
			leveled = append(leveled, i+1)
		}
		h = out.Habit
	}
	if h.CurrentStage != 1 {
		t.Errorf("stage = %d after 7 completions, want 1", h.CurrentStage)
	}
	if len(leveled) != 1 || leveled[0] != 7 {
		t.Errorf("leveled up at completions %v, want [7]", leveled)
	}
}

func TestStageMonotonic(t *testing.T) {
	tests := []struct {
		name      string
		stage     int
		prior     int
		wantStage int
	}{
		{"stage above completion-derived value is kept", 5, 3, 5},
		{"derived value raises stage", 1, 20, 3},
		{"capped at seven", 6, 200, 7},
		{"already at seven", 7, 49, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHabit()
			h.CurrentStage = tt.stage
			out := complete(t, h, at(0, 12), tt.prior)
			if out.Habit.CurrentStage != tt.wantStage {
				t.Errorf("stage = %d, want %d", out.Habit.CurrentStage, tt.wantStage)
			}
			if out.Habit.CurrentStage < tt.stage {
				t.Error("stage regressed")
			}
		})
	}
}

func TestCompletionHealth(t *testing.T) {
	tests := []struct {
		health       int
		want         int
		wantRestored int
	}{
		{40, 60, 20},
		{90, 100, 10},
		{100, 100, 0},
		{0, 20, 20},
	}

	for _, tt := range tests {
		h := newTestHabit()
		h.Health = tt.health
		out := complete(t, h, at(0, 12), 0)
		if out.Habit.Health != tt.want {
			t.Errorf("health %d -> %d, want %d", tt.health, out.Habit.Health, tt.want)
		}
		if out.HealthRestored != tt.wantRestored {
			t.Errorf("HealthRestored = %d, want %d", out.HealthRestored, tt.wantRestored)
		}
	}
}

func TestCompletionRecord(t *testing.T) {
	now := at(2, 18)
	out, err := CompleteHabit(newTestHabit(), now, 0, "before bed")
	if err != nil {
		t.Fatalf("CompleteHabit failed: %v", err)
	}
	c := out.Completion
	if c.HabitID != "habit-1" || !c.CompletedAt.Equal(now) || c.Notes != "before bed" {
		t.Errorf("completion draft = %+v", c)
	}
	if out.Habit.LastCompletedAt == nil || !out.Habit.LastCompletedAt.Equal(now) {
		t.Error("LastCompletedAt not set to now")
	}
	if !out.Habit.UpdatedAt.Equal(now) {
		t.Error("UpdatedAt not refreshed")
	}
}

func TestCompleteDeadHabitRejected(t *testing.T) {
	h := newTestHabit()
	h.IsDead = true
	h.Health = 0

	_, err := CompleteHabit(h, at(1, 8), 0, "")
	if !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestCheckHealthDecay(t *testing.T) {
	tests := []struct {
		name        string
		health      int
		checkDay    int
		wantHealth  int
		wantDead    bool
		wantChanged bool
	}{
		{"same day", 100, 0, 100, false, false},
		{"grace day", 100, 1, 100, false, false},
		{"two missed days", 100, 3, 70, false, true},
		{"one missed day", 80, 2, 65, false, true},
		{"eight missed days kills", 100, 10, 0, true, true},
		{"exact zero kills", 30, 3, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := at(0, 20)
			h := newTestHabit()
			h.Health = tt.health
			h.StreakCount = 4
			h.LastCompletedAt = &last

			got, changed := CheckHealthDecay(h, at(tt.checkDay, 7))
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if got.Health != tt.wantHealth || got.IsDead != tt.wantDead {
				t.Errorf("health %d dead %v, want %d %v", got.Health, got.IsDead, tt.wantHealth, tt.wantDead)
			}
			wantStreak := 4
			if tt.wantDead {
				wantStreak = 0
			}
			if got.StreakCount != wantStreak {
				t.Errorf("streak = %d, want %d", got.StreakCount, wantStreak)
			}
		})
	}
}

func TestCheckHealthDecayUsesCreatedAt(t *testing.T) {
	h := newTestHabit() // created day0, never completed
	got, changed := CheckHealthDecay(h, at(4, 12))
	if !changed || got.Health != 55 {
		t.Errorf("health = %d changed = %v, want 55 true", got.Health, changed)
	}
}

func TestCheckHealthDecayDeadUnchanged(t *testing.T) {
	h := newTestHabit()
	h.IsDead = true
	h.Health = 0
	got, changed := CheckHealthDecay(h, at(30, 12))
	if changed || !got.IsDead {
		t.Error("dead habit must not decay further")
	}
}

func TestCheckHealthDecayAlreadyFloored(t *testing.T) {
	last := at(0, 8)
	h := newTestHabit()
	h.Health = 0
	h.LastCompletedAt = &last
	got, changed := CheckHealthDecay(h, at(5, 8))
	if !changed || !got.IsDead {
		t.Errorf("zero-health habit should transition to dead, got dead=%v changed=%v", got.IsDead, changed)
	}
}

func TestReviveHabit(t *testing.T) {
	last := at(0, 8)
	h := newTestHabit()
	h.CurrentStage = 6
	h.StreakCount = 0
	h.Health = 0
	h.IsDead = true
	h.LastCompletedAt = &last

	now := at(12, 10)
	got, err := ReviveHabit(h, now)
	if err != nil {
		t.Fatalf("ReviveHabit failed: %v", err)
	}
	if got.Health != 50 || got.IsDead || got.CurrentStage != 0 || got.StreakCount != 0 {
		t.Errorf("revived = health %d dead %v stage %d streak %d", got.Health, got.IsDead, got.CurrentStage, got.StreakCount)
	}
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(now) {
		t.Error("LastCompletedAt should be revival time")
	}

	// Revival restarts the grace period.
	if _, changed := CheckHealthDecay(got, at(13, 10)); changed {
		t.Error("revived habit decayed within grace period")
	}
}

func TestReviveLivingHabitFails(t *testing.T) {
	_, err := ReviveHabit(newTestHabit(), at(1, 8))
	if !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestDeathThenRevivalCycle(t *testing.T) {
	h := complete(t, newTestHabit(), at(0, 8), 0).Habit

	h, _ = CheckHealthDecay(h, at(10, 8))
	if !h.IsDead {
		t.Fatal("expected habit to die")
	}
	if _, err := CompleteHabit(h, at(10, 9), 1, ""); err == nil {
		t.Fatal("completing a dead habit should fail")
	}

	h, err := ReviveHabit(h, at(10, 10))
	if err != nil {
		t.Fatalf("ReviveHabit failed: %v", err)
	}
	out := complete(t, h, at(11, 8), 1)
	if out.Habit.Health != 70 || out.Habit.StreakCount != 1 {
		t.Errorf("after revival + completion: health %d streak %d, want 70 1", out.Habit.Health, out.Habit.StreakCount)
	}
}

func TestStageForCompletions(t *testing.T) {
	tests := map[int]int{0: 0, 6: 0, 7: 1, 13: 1, 14: 2, 48: 6, 49: 7, 500: 7}
	for total, want := range tests {
		if got := StageForCompletions(total); got != want {
			t.Errorf("StageForCompletions(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestCheckHealthDecayChargesEachDayOnce(t *testing.T) {
	last := at(0, 20)
	h := newTestHabit()
	h.LastCompletedAt = &last

	first, changed := CheckHealthDecay(h, at(3, 7))
	if !changed || first.Health != 70 {
		t.Fatalf("first check: health = %d changed = %v, want 70 true", first.Health, changed)
	}
	if first.DecayCheckedAt == nil {
		t.Fatal("expected DecayCheckedAt to be stamped")
	}

	again, changed := CheckHealthDecay(first, at(3, 22))
	if changed || again.Health != 70 {
		t.Errorf("same-day recheck: health = %d changed = %v, want 70 false", again.Health, changed)
	}

	next, changed := CheckHealthDecay(again, at(4, 9))
	if !changed || next.Health != 55 {
		t.Errorf("next day: health = %d changed = %v, want 55 true", next.Health, changed)
	}
}

func TestCheckHealthDecayIgnoresCheckBeforeCompletion(t *testing.T) {
	checked := at(3, 7)
	last := at(3, 9)
	h := newTestHabit()
	h.Health = 90
	h.DecayCheckedAt = &checked
	h.LastCompletedAt = &last

	got, changed := CheckHealthDecay(h, at(6, 9))
	if !changed || got.Health != 60 {
		t.Errorf("health = %d changed = %v, want 60 true", got.Health, changed)
	}
}
