// Package premium holds the quota, theme, ad and purchase commands.
package premium

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/entitlement"
	"github.com/julianstephens/habitgarden/internal/models"
)

type QuotaCmd struct{}

func (c *QuotaCmd) Run(ctx *cli.Context) error {
	slots, err := ctx.Garden.GetRemainingHabitSlots(ctx.Ctx())
	if err != nil {
		return err
	}
	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		return err
	}

	if slots.Unlimited {
		ctx.Printf("Premium (%s): unlimited habits\n", prefs.PremiumPlan)
		return nil
	}
	ctx.Printf("Habit slots left this month: %s of %d\n", slots, entitlement.TotalHabitLimit(prefs))
	ctx.Printf("  Free plan:        %d/month\n", constants.FreeHabitLimitPerMonth)
	ctx.Printf("  Earned from ads:  %d\n", prefs.AdEarnedSlots)
	if ok, left := entitlement.CanWatchAds(prefs); ok {
		ctx.Printf("  Ad tries left:    %d (run 'garden ads watch')\n", left)
	} else {
		ctx.Println("  Ad tries left:    0")
	}
	return nil
}

type ThemeCmd struct {
	List  ThemeListCmd  `cmd:"" help:"List flower themes." default:"1"`
	Check ThemeCheckCmd `cmd:"" help:"Check whether a theme is available."`
}

type ThemeListCmd struct{}

func (c *ThemeListCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		return err
	}
	for _, t := range models.AllThemes() {
		marker := "  "
		note := ""
		if t.IsPremium() {
			note = cli.MutedStyle.Render("premium")
			if !prefs.IsPremium {
				marker = "🔒"
			}
		}
		ctx.Printf("%s %-16s %-20s %s\n", marker, t, models.StageName(t, constants.MaxStage), note)
	}
	return nil
}

type ThemeCheckCmd struct {
	Theme string `arg:"" help:"Theme name."`
}

func (c *ThemeCheckCmd) Run(ctx *cli.Context) error {
	theme, err := models.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	d, err := ctx.Garden.CanUseTheme(theme)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return fmt.Errorf("%s", d.Reason)
	}
	ctx.Printf("%s %s is available\n", cli.SuccessStyle.Render("✓"), theme.Title())
	return nil
}

type AdsCmd struct {
	Watch AdsWatchCmd `cmd:"" help:"Watch ads to earn an extra habit slot."`
}

type AdsWatchCmd struct {
	Duration time.Duration `help:"Length of each ad." default:"10s" hidden:""`
}

func (c *AdsWatchCmd) Run(ctx *cli.Context) error {
	player := entitlement.NewTimedPlayer(func(index int, remaining time.Duration) {
		ctx.Printf("\r  Ad %d/%d: %2ds left ", index+1, constants.AdsPerSlot, int(remaining.Round(time.Second).Seconds()))
	})
	player.Duration = c.Duration

	prefs, err := ctx.Garden.WatchAdsForSlot(ctx.Ctx(), player, func(watched, total int) {
		ctx.Printf("\r  Ad %d/%d watched        \n", watched, total)
	})
	if err != nil {
		return err
	}

	_, left := entitlement.CanWatchAds(prefs)
	ctx.Printf("%s Earned a habit slot (%d earned, %d ad tries left)\n",
		cli.SuccessStyle.Render("✓"), prefs.AdEarnedSlots, left)
	return nil
}

type PremiumCmd struct {
	Plans  PremiumPlansCmd  `cmd:"" help:"Show premium plans." default:"1"`
	Unlock PremiumUnlockCmd `cmd:"" help:"Record a completed premium purchase."`
	Buy    PremiumBuyCmd    `cmd:"" help:"Record a cosmetic item purchase."`
}

type PremiumPlansCmd struct{}

func (c *PremiumPlansCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		return err
	}
	if prefs.IsPremium {
		ctx.Printf("You are on Premium (%s).\n\n", prefs.PremiumPlan)
	}
	for _, p := range entitlement.Pricing {
		line := fmt.Sprintf("  %-9s %-8s %-10s %s", p.Label, p.Price, p.Period, p.Savings)
		if p.Popular {
			line += " " + cli.TitleStyle.Render("★ popular")
		}
		ctx.Println(strings.TrimRight(line, " "))
	}
	ctx.Println()
	ctx.Println("Premium unlocks every theme, unlimited habits and app blocking.")
	return nil
}

type PremiumUnlockCmd struct {
	Plan string `arg:"" help:"Plan: monthly, yearly or onetime."`
}

func (c *PremiumUnlockCmd) Run(ctx *cli.Context) error {
	plan, err := models.ParsePremiumPlan(c.Plan)
	if err != nil {
		return err
	}
	if _, err := ctx.Garden.UnlockPremium(plan); err != nil {
		return err
	}
	ctx.Printf("%s Premium unlocked (%s)\n", cli.SuccessStyle.Render("✓"), plan)
	return nil
}

type PremiumBuyCmd struct {
	Kind string `arg:"" help:"Item kind: skin, background or animation." enum:"skin,background,animation"`
	ID   string `arg:"" help:"Item id."`
}

func (c *PremiumBuyCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Garden.PurchaseItem(models.ItemKind(c.Kind), c.ID); err != nil {
		return err
	}
	ctx.Printf("%s Purchased %s %q\n", cli.SuccessStyle.Render("✓"), c.Kind, c.ID)
	return nil
}
