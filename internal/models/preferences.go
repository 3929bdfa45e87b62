package models

import (
	"fmt"
	"time"
)

// PremiumPlan is the purchased premium tier.
type PremiumPlan string

const (
	PlanMonthly PremiumPlan = "monthly"
	PlanYearly  PremiumPlan = "yearly"
	PlanOneTime PremiumPlan = "onetime"
)

// ParsePremiumPlan validates a plan name.
func ParsePremiumPlan(s string) (PremiumPlan, error) {
	switch p := PremiumPlan(s); p {
	case PlanMonthly, PlanYearly, PlanOneTime:
		return p, nil
	}
	return "", fmt.Errorf("unknown premium plan %q (expected monthly, yearly or onetime)", s)
}

// ItemKind is the category of a purchasable cosmetic.
type ItemKind string

const (
	ItemSkin       ItemKind = "skin"
	ItemBackground ItemKind = "background"
	ItemAnimation  ItemKind = "animation"
)

// UserPreferences is the per-identity settings record read by the entitlement engine.
type UserPreferences struct {
	ID                          string      `json:"id"`
	HasCompletedOnboarding      bool        `json:"hasCompletedOnboarding"`
	HasCompletedTutorial        bool        `json:"hasCompletedTutorial"`
	DefaultTheme                Theme       `json:"defaultTheme,omitempty"`
	NotificationTime            string      `json:"notificationTime,omitempty"`
	IsPremium                   bool        `json:"isPremium"`
	PremiumPlan                 PremiumPlan `json:"premiumPlan,omitempty"`
	PurchasedSkins              []string    `json:"purchasedSkins"`
	PurchasedBackgrounds        []string    `json:"purchasedBackgrounds"`
	PurchasedAnimations         []string    `json:"purchasedAnimations"`
	DarkMode                    bool        `json:"darkMode"`
	IsLoggedIn                  bool        `json:"isLoggedIn"`
	UserEmail                   string      `json:"userEmail,omitempty"`
	UserName                    string      `json:"userName,omitempty"`
	NotificationsEnabled        bool        `json:"notificationsEnabled"`
	NotificationPermissionAsked bool        `json:"notificationPermissionAsked"`
	GardenName                  string      `json:"gardenName,omitempty"`
	AdEarnedSlots               int         `json:"adEarnedSlots"`
	AdTriesUsed                 int         `json:"adTriesUsed"`
	StreaksEnabled              bool        `json:"streaksEnabled"`
	CreatedAt                   time.Time   `json:"createdAt"`
	UpdatedAt                   time.Time   `json:"updatedAt"`
}

// DefaultPreferences returns the record used when none is stored yet.
func DefaultPreferences(id string, now time.Time) UserPreferences {
	return UserPreferences{
		ID:                   id,
		PurchasedSkins:       []string{},
		PurchasedBackgrounds: []string{},
		PurchasedAnimations:  []string{},
		StreaksEnabled:       true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// HasPurchased reports whether a cosmetic item is owned.
func (p UserPreferences) HasPurchased(kind ItemKind, id string) bool {
	var items []string
	switch kind {
	case ItemSkin:
		items = p.PurchasedSkins
	case ItemBackground:
		items = p.PurchasedBackgrounds
	case ItemAnimation:
		items = p.PurchasedAnimations
	}
	for _, it := range items {
		if it == id {
			return true
		}
	}
	return false
}

// PreferencesPatch is a partial update; nil fields are left untouched.
type PreferencesPatch struct {
	HasCompletedOnboarding      *bool        `json:"hasCompletedOnboarding,omitempty"`
	HasCompletedTutorial        *bool        `json:"hasCompletedTutorial,omitempty"`
	DefaultTheme                *Theme       `json:"defaultTheme,omitempty"`
	NotificationTime            *string      `json:"notificationTime,omitempty"`
	IsPremium                   *bool        `json:"isPremium,omitempty"`
	PremiumPlan                 *PremiumPlan `json:"premiumPlan,omitempty"`
	PurchasedSkins              []string     `json:"purchasedSkins,omitempty"`
	PurchasedBackgrounds        []string     `json:"purchasedBackgrounds,omitempty"`
	PurchasedAnimations         []string     `json:"purchasedAnimations,omitempty"`
	DarkMode                    *bool        `json:"darkMode,omitempty"`
	IsLoggedIn                  *bool        `json:"isLoggedIn,omitempty"`
	UserEmail                   *string      `json:"userEmail,omitempty"`
	UserName                    *string      `json:"userName,omitempty"`
	NotificationsEnabled        *bool        `json:"notificationsEnabled,omitempty"`
	NotificationPermissionAsked *bool        `json:"notificationPermissionAsked,omitempty"`
	GardenName                  *string      `json:"gardenName,omitempty"`
	AdEarnedSlots               *int         `json:"adEarnedSlots,omitempty"`
	AdTriesUsed                 *int         `json:"adTriesUsed,omitempty"`
	StreaksEnabled              *bool        `json:"streaksEnabled,omitempty"`
}

// Apply copies the set fields of p onto prefs. Purchased lists replace the
// stored list when non-nil.
func (p PreferencesPatch) Apply(prefs *UserPreferences) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setBool(&prefs.HasCompletedOnboarding, p.HasCompletedOnboarding)
	setBool(&prefs.HasCompletedTutorial, p.HasCompletedTutorial)
	if p.DefaultTheme != nil {
		prefs.DefaultTheme = *p.DefaultTheme
	}
	setString(&prefs.NotificationTime, p.NotificationTime)
	setBool(&prefs.IsPremium, p.IsPremium)
	if p.PremiumPlan != nil {
		prefs.PremiumPlan = *p.PremiumPlan
	}
	if p.PurchasedSkins != nil {
		prefs.PurchasedSkins = append([]string{}, p.PurchasedSkins...)
	}
	if p.PurchasedBackgrounds != nil {
		prefs.PurchasedBackgrounds = append([]string{}, p.PurchasedBackgrounds...)
	}
	if p.PurchasedAnimations != nil {
		prefs.PurchasedAnimations = append([]string{}, p.PurchasedAnimations...)
	}
	setBool(&prefs.DarkMode, p.DarkMode)
	setBool(&prefs.IsLoggedIn, p.IsLoggedIn)
	setString(&prefs.UserEmail, p.UserEmail)
	setString(&prefs.UserName, p.UserName)
	setBool(&prefs.NotificationsEnabled, p.NotificationsEnabled)
	setBool(&prefs.NotificationPermissionAsked, p.NotificationPermissionAsked)
	setString(&prefs.GardenName, p.GardenName)
	if p.AdEarnedSlots != nil {
		prefs.AdEarnedSlots = *p.AdEarnedSlots
	}
	if p.AdTriesUsed != nil {
		prefs.AdTriesUsed = *p.AdTriesUsed
	}
	setBool(&prefs.StreaksEnabled, p.StreaksEnabled)
}
