// Package entitlement decides what a user's plan allows: monthly habit
// quota, premium themes, app blocking and the ad-for-slot economy. Checks are
// advisory and never fail; callers decide how to react to a denial.
package entitlement

import (
	"fmt"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/utils"
)

// Decision is the result of an entitlement check.
type Decision struct {
	Allowed bool
	Reason  string
	// CanWatchAds is set on quota denials when ad tries remain.
	CanWatchAds bool
}

// Slots describes the remaining monthly creation allowance.
type Slots struct {
	Remaining int
	Unlimited bool
}

func (s Slots) String() string {
	if s.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", s.Remaining)
}

// Engine evaluates entitlements against the clock's current month.
type Engine struct {
	clock clock.Clock
}

// New returns an Engine reading the current month from c.
func New(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// CurrentMonth returns the quota month key ("YYYY-MM").
func (e *Engine) CurrentMonth() string {
	return utils.MonthKey(e.clock.Now())
}

// HabitsCreatedThisMonth counts habits whose creation month is the current month.
func (e *Engine) HabitsCreatedThisMonth(habits []models.Habit) int {
	month := e.CurrentMonth()
	n := 0
	for _, h := range habits {
		if h.CreatedMonth == month {
			n++
		}
	}
	return n
}

// TotalHabitLimit is the free monthly limit plus ad-earned slots.
func TotalHabitLimit(prefs models.UserPreferences) int {
	return constants.FreeHabitLimitPerMonth + prefs.AdEarnedSlots
}

// CanCreateHabit checks the monthly creation quota.
func (e *Engine) CanCreateHabit(prefs models.UserPreferences, habits []models.Habit) Decision {
	if prefs.IsPremium {
		return Decision{Allowed: true}
	}

	limit := TotalHabitLimit(prefs)
	if e.HabitsCreatedThisMonth(habits) < limit {
		return Decision{Allowed: true}
	}

	canWatch, _ := CanWatchAds(prefs)
	hint := "Upgrade to Premium for unlimited habits!"
	if canWatch {
		hint = "Watch ads for an extra slot or upgrade to Premium!"
	}
	return Decision{
		Allowed:     false,
		Reason:      fmt.Sprintf("Free plan limit reached (%d habits/month). %s", limit, hint),
		CanWatchAds: canWatch,
	}
}

// RemainingHabitSlots reports how many more habits may be created this month.
func (e *Engine) RemainingHabitSlots(prefs models.UserPreferences, habits []models.Habit) Slots {
	if prefs.IsPremium {
		return Slots{Unlimited: true}
	}
	remaining := TotalHabitLimit(prefs) - e.HabitsCreatedThisMonth(habits)
	if remaining < 0 {
		remaining = 0
	}
	return Slots{Remaining: remaining}
}

// CanUseTheme checks whether the theme is available on the user's plan.
func CanUseTheme(prefs models.UserPreferences, theme models.Theme) Decision {
	if prefs.IsPremium || !theme.IsPremium() {
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("%s requires Premium. Upgrade to unlock!", theme.Title()),
	}
}

// CanUseAppBlocking checks the premium gate for app blocking.
func CanUseAppBlocking(prefs models.UserPreferences) Decision {
	if prefs.IsPremium {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Reason: "App blocking requires Premium. Upgrade to unlock!"}
}

// CanWatchAds reports whether ad tries remain and how many.
func CanWatchAds(prefs models.UserPreferences) (bool, int) {
	remaining := constants.MaxAdTries - prefs.AdTriesUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining > 0, remaining
}

// AdSlotEarned returns the preferences patch recording one earned slot.
func AdSlotEarned(prefs models.UserPreferences) models.PreferencesPatch {
	slots := prefs.AdEarnedSlots + 1
	tries := prefs.AdTriesUsed + 1
	return models.PreferencesPatch{AdEarnedSlots: &slots, AdTriesUsed: &tries}
}
