package garden

import (
	"context"

	"github.com/julianstephens/habitgarden/internal/entitlement"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
)

func (s *Service) quotaInputs(ctx context.Context) (models.UserPreferences, []models.Habit, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return models.UserPreferences{}, nil, err
	}
	habits, err := s.env.Repository.ListHabits(ctx)
	if err != nil {
		return models.UserPreferences{}, nil, err
	}
	return prefs, habits, nil
}

func (s *Service) CanCreateHabit(ctx context.Context) (entitlement.Decision, error) {
	prefs, habits, err := s.quotaInputs(ctx)
	if err != nil {
		return entitlement.Decision{}, err
	}
	return s.env.Entitlements.CanCreateHabit(prefs, habits), nil
}

func (s *Service) GetRemainingHabitSlots(ctx context.Context) (entitlement.Slots, error) {
	prefs, habits, err := s.quotaInputs(ctx)
	if err != nil {
		return entitlement.Slots{}, err
	}
	return s.env.Entitlements.RemainingHabitSlots(prefs, habits), nil
}

func (s *Service) CanUseTheme(theme models.Theme) (entitlement.Decision, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return entitlement.Decision{}, err
	}
	return entitlement.CanUseTheme(prefs, theme), nil
}

// Preferences are always device-local, keyed by the current identity.
func (s *Service) Preferences() (models.UserPreferences, error) {
	return s.env.Store.Preferences(s.env.Identity.UserID)
}

func (s *Service) UpdatePreferences(patch models.PreferencesPatch) (models.UserPreferences, error) {
	return s.env.Store.UpdatePreferences(s.env.Identity.UserID, patch)
}

// ResetPreferences restores the default settings. Purchases, ad slots and
// the account fields survive the reset.
func (s *Service) ResetPreferences() (models.UserPreferences, error) {
	prev, err := s.Preferences()
	if err != nil {
		return models.UserPreferences{}, err
	}
	if err := s.env.Store.ResetPreferences(s.env.Identity.UserID); err != nil {
		return models.UserPreferences{}, err
	}
	return s.UpdatePreferences(models.PreferencesPatch{
		IsPremium:            &prev.IsPremium,
		PremiumPlan:          &prev.PremiumPlan,
		PurchasedSkins:       prev.PurchasedSkins,
		PurchasedBackgrounds: prev.PurchasedBackgrounds,
		PurchasedAnimations:  prev.PurchasedAnimations,
		IsLoggedIn:           &prev.IsLoggedIn,
		UserEmail:            &prev.UserEmail,
		UserName:             &prev.UserName,
		AdEarnedSlots:        &prev.AdEarnedSlots,
		AdTriesUsed:          &prev.AdTriesUsed,
	})
}

// WatchAdsForSlot plays the ads for one extra monthly slot and records it.
// Canceling ctx stops playback without granting anything.
func (s *Service) WatchAdsForSlot(ctx context.Context, player entitlement.AdPlayer, onWatched func(watched, total int)) (models.UserPreferences, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return models.UserPreferences{}, err
	}
	patch, err := entitlement.WatchAdsForSlot(ctx, prefs, player, onWatched)
	if err != nil {
		return models.UserPreferences{}, err
	}
	updated, err := s.UpdatePreferences(patch)
	if err != nil {
		return models.UserPreferences{}, err
	}
	logger.Info("Ad slot earned", "slots", updated.AdEarnedSlots, "tries", updated.AdTriesUsed)
	return updated, nil
}

func (s *Service) UnlockPremium(plan models.PremiumPlan) (models.UserPreferences, error) {
	updated, err := s.UpdatePreferences(entitlement.UnlockPremium(plan))
	if err != nil {
		return models.UserPreferences{}, err
	}
	logger.Info("Premium unlocked", "plan", plan)
	return updated, nil
}

func (s *Service) PurchaseItem(kind models.ItemKind, id string) (models.UserPreferences, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return models.UserPreferences{}, err
	}
	patch, err := entitlement.PurchaseItem(prefs, kind, id)
	if err != nil {
		return models.UserPreferences{}, err
	}
	return s.UpdatePreferences(patch)
}
