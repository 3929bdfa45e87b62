package settings

import (
	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/utils"
)

type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" help:"Show preferences." default:"1"`
	Set   PrefsSetCmd   `cmd:"" help:"Update preferences."`
	Reset PrefsResetCmd `cmd:"" help:"Restore default preferences."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Garden.Preferences()
	if err != nil {
		return err
	}
	name := p.GardenName
	if name == "" {
		name = "(unnamed)"
	}
	theme := string(p.DefaultTheme)
	if theme == "" {
		theme = string(models.DefaultTheme)
	}

	ctx.Println("Current Preferences:")
	ctx.Printf("  Garden Name:           %s\n", name)
	ctx.Printf("  Default Theme:         %s\n", theme)
	ctx.Printf("  Dark Mode:             %v\n", p.DarkMode)
	ctx.Printf("  Streaks Enabled:       %v\n", p.StreaksEnabled)
	ctx.Printf("  Notifications Enabled: %v\n", p.NotificationsEnabled)
	if p.NotificationTime != "" {
		ctx.Printf("  Notification Time:     %s\n", p.NotificationTime)
	}
	ctx.Println("\nAccount:")
	ctx.Printf("  Logged In:             %v\n", p.IsLoggedIn)
	if p.UserEmail != "" {
		ctx.Printf("  Email:                 %s\n", p.UserEmail)
	}
	ctx.Printf("  Premium:               %v\n", p.IsPremium)
	if p.PremiumPlan != "" {
		ctx.Printf("  Plan:                  %s\n", p.PremiumPlan)
	}
	ctx.Printf("  Ad Slots / Tries:      %d / %d\n", p.AdEarnedSlots, p.AdTriesUsed)
	return nil
}

type PrefsSetCmd struct {
	GardenName       *string `help:"Name of your garden."`
	DefaultTheme     *string `help:"Theme preselected for new habits."`
	DarkMode         *bool   `help:"Enable or disable dark mode."`
	Streaks          *bool   `help:"Show streak counters."`
	Notifications    *bool   `help:"Enable or disable reminders."`
	NotificationTime *string `help:"Daily reminder time (HH:MM)."`
	Onboarded        *bool   `help:"Mark onboarding as completed."`
}

func (c *PrefsSetCmd) Run(ctx *cli.Context) error {
	patch := models.PreferencesPatch{
		GardenName:             c.GardenName,
		DarkMode:               c.DarkMode,
		StreaksEnabled:         c.Streaks,
		NotificationsEnabled:   c.Notifications,
		NotificationTime:       c.NotificationTime,
		HasCompletedOnboarding: c.Onboarded,
	}
	if c.DefaultTheme != nil {
		theme, err := models.ParseTheme(*c.DefaultTheme)
		if err != nil {
			return err
		}
		d, err := ctx.Garden.CanUseTheme(theme)
		if err != nil {
			return err
		}
		if !d.Allowed {
			return errors.NewValidation(d.Reason)
		}
		patch.DefaultTheme = &theme
	}
	if c.NotificationTime != nil && !utils.ValidateTimeFormat(*c.NotificationTime) {
		return errors.NewValidation("Notification time must be HH:MM")
	}

	changed := c.GardenName != nil || c.DefaultTheme != nil || c.DarkMode != nil || c.Streaks != nil ||
		c.Notifications != nil || c.NotificationTime != nil || c.Onboarded != nil
	if !changed {
		ctx.Println("No changes specified. Use 'garden prefs show' to view preferences or flags to update them.")
		return nil
	}
	if _, err := ctx.Garden.UpdatePreferences(patch); err != nil {
		return err
	}
	ctx.Println("Preferences updated successfully.")
	return nil
}

type PrefsResetCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *PrefsResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Prompt.Confirm("Restore default preferences? Purchases and ad slots are kept.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	if _, err := ctx.Garden.ResetPreferences(); err != nil {
		return err
	}
	ctx.Println("Preferences restored to defaults.")
	return nil
}
