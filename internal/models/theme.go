package models

import (
	"fmt"
	"strings"
)

// Theme selects the flower a habit grows into.
type Theme string

const (
	ThemeRose         Theme = "rose"
	ThemeLily         Theme = "lily"
	ThemeTulip        Theme = "tulip"
	ThemeCarnation    Theme = "carnation"
	ThemePeony        Theme = "peony"
	ThemePoppy        Theme = "poppy"
	ThemeSunflower    Theme = "sunflower"
	ThemeIris         Theme = "iris"
	ThemeLavender     Theme = "lavender"
	ThemeLilyOfValley Theme = "lily-of-valley"
	ThemeBluebell     Theme = "bluebell"
	ThemeButtercup    Theme = "buttercup"
	ThemeCornflower   Theme = "cornflower"
)

// DefaultTheme is used when a habit is created without one.
const DefaultTheme = ThemeRose

var (
	// FreeThemes are available on every plan.
	FreeThemes = []Theme{ThemeRose, ThemeLily, ThemeTulip, ThemeCarnation, ThemePeony, ThemePoppy}
	// PremiumThemes require an active premium plan.
	PremiumThemes = []Theme{
		ThemeSunflower, ThemeIris, ThemeLavender, ThemeLilyOfValley,
		ThemeBluebell, ThemeButtercup, ThemeCornflower,
	}
)

// AllThemes returns every theme, free ones first.
func AllThemes() []Theme {
	all := make([]Theme, 0, len(FreeThemes)+len(PremiumThemes))
	all = append(all, FreeThemes...)
	return append(all, PremiumThemes...)
}

// IsPremium reports whether the theme is premium-gated.
func (t Theme) IsPremium() bool {
	for _, p := range PremiumThemes {
		if p == t {
			return true
		}
	}
	return false
}

// Valid reports whether t names a known theme.
func (t Theme) Valid() bool {
	_, ok := flowerStageNames[t]
	return ok
}

// Title capitalizes the first letter, e.g. "Lily-of-valley".
func (t Theme) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseTheme validates a user-supplied theme name.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// ColorPalette is a cosmetic palette applied to a habit's flower.
type ColorPalette string

const (
	PalettePastelPink   ColorPalette = "pastel-pink"
	PalettePastelBlue   ColorPalette = "pastel-blue"
	PalettePastelGreen  ColorPalette = "pastel-green"
	PalettePastelPurple ColorPalette = "pastel-purple"
	PalettePastelYellow ColorPalette = "pastel-yellow"
	PaletteSoftCoral    ColorPalette = "soft-coral"
	PaletteMintDream    ColorPalette = "mint-dream"
	PaletteLavenderMist ColorPalette = "lavender-mist"
)

// DefaultPalette is used when a habit is created without one.
const DefaultPalette = PalettePastelPink

// Palettes lists every color palette.
var Palettes = []ColorPalette{
	PalettePastelPink, PalettePastelBlue, PalettePastelGreen, PalettePastelPurple,
	PalettePastelYellow, PaletteSoftCoral, PaletteMintDream, PaletteLavenderMist,
}

// Valid reports whether p names a known palette.
func (p ColorPalette) Valid() bool {
	for _, v := range Palettes {
		if v == p {
			return true
		}
	}
	return false
}

// Frequency is the stated goal cadence. It is informational only.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}
