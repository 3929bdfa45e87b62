package entitlement

import (
	"fmt"

	"github.com/julianstephens/habitgarden/internal/models"
)

// PricingInfo is the display information of a premium plan.
type PricingInfo struct {
	Plan    models.PremiumPlan
	Label   string
	Price   string
	Period  string
	Savings string
	Popular bool
}

// Pricing lists the available plans. Checkout happens with the payment
// provider; this package only records the outcome.
var Pricing = []PricingInfo{
	{Plan: models.PlanMonthly, Label: "Monthly", Price: "$1.99", Period: "/month"},
	{Plan: models.PlanYearly, Label: "Yearly", Price: "$10.99", Period: "/year", Savings: "Save 54%", Popular: true},
	{Plan: models.PlanOneTime, Label: "Lifetime", Price: "$20.00", Period: "one-time", Savings: "Best value"},
}

// UnlockPremium returns the patch recording a completed premium purchase.
func UnlockPremium(plan models.PremiumPlan) models.PreferencesPatch {
	premium := true
	return models.PreferencesPatch{IsPremium: &premium, PremiumPlan: &plan}
}

// PurchaseItem returns the patch adding a cosmetic item to the owned list.
// Purchasing an owned item is an error.
func PurchaseItem(prefs models.UserPreferences, kind models.ItemKind, id string) (models.PreferencesPatch, error) {
	if id == "" {
		return models.PreferencesPatch{}, fmt.Errorf("item id cannot be empty")
	}
	if prefs.HasPurchased(kind, id) {
		return models.PreferencesPatch{}, fmt.Errorf("%s %q is already owned", kind, id)
	}

	var p models.PreferencesPatch
	switch kind {
	case models.ItemSkin:
		p.PurchasedSkins = append(append([]string{}, prefs.PurchasedSkins...), id)
	case models.ItemBackground:
		p.PurchasedBackgrounds = append(append([]string{}, prefs.PurchasedBackgrounds...), id)
	case models.ItemAnimation:
		p.PurchasedAnimations = append(append([]string{}, prefs.PurchasedAnimations...), id)
	default:
		return models.PreferencesPatch{}, fmt.Errorf("unknown item kind %q", kind)
	}
	return p, nil
}
