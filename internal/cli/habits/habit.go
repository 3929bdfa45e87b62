package habits

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Plant a new habit."`
	List    HabitListCmd    `cmd:"" help:"Show the garden." default:"1"`
	Done    HabitDoneCmd    `cmd:"" help:"Record today's completion."`
	Revive  HabitReviveCmd  `cmd:"" help:"Revive a withered habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Stats   HabitStatsCmd   `cmd:"" help:"Show growth stats for a habit."`
	History HabitHistoryCmd `cmd:"" help:"Show completion history."`
	Block   HabitBlockCmd   `cmd:"" help:"Configure app blocking (premium)."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Theme     string `help:"Flower theme (see 'garden theme list')."`
	Palette   string `help:"Color palette."`
	Frequency string `help:"Goal frequency: daily, weekly or custom." default:"daily" enum:"daily,weekly,custom"`
	Custom    int    `help:"Times per week when frequency is custom."`
	Reminder  string `help:"Daily reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	draft := models.HabitDraft{
		Name:            c.Name,
		Theme:           models.Theme(strings.ToLower(c.Theme)),
		ColorPalette:    models.ColorPalette(c.Palette),
		GoalFrequency:   models.Frequency(c.Frequency),
		CustomFrequency: c.Custom,
		ReminderEnabled: c.Reminder != "",
		ReminderTime:    c.Reminder,
	}

	if draft.Theme == "" {
		prefs, err := ctx.Garden.Preferences()
		if err != nil {
			return err
		}
		draft.Theme = prefs.DefaultTheme
	}

	h, err := ctx.Garden.CreateHabit(ctx.Ctx(), draft)
	if err != nil {
		var verr *errors.ValidationError
		if errors.As(err, &verr) && verr.CanWatchAds {
			return fmt.Errorf("%s\nRun 'garden ads watch' to earn another slot", verr.Reason)
		}
		return err
	}

	ctx.Printf("%s Planted %q as a %s %s\n",
		cli.SuccessStyle.Render("✓"), h.Name, h.Theme.Title(), models.StageName(h.Theme, h.CurrentStage))
	ctx.Printf("  ID: %s\n", h.ID)
	return nil
}

type HabitListCmd struct {
	JSON bool `help:"Print habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Garden.FetchAllHabits(ctx.Ctx())
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(habits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal habits: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	if len(habits) == 0 {
		ctx.Println("Your garden is empty. Plant a habit with 'garden habit add <name>'.")
		return nil
	}

	id := ctx.Garden.Identity()
	owner := "guest"
	if id.Authenticated {
		owner = id.Email
	}
	ctx.Println(cli.TitleStyle.Render(fmt.Sprintf("🌷 Garden of %s (%d habits)", owner, len(habits))))
	for _, h := range habits {
		ctx.Printf("  %s  %s\n", cli.MutedStyle.Render(cli.ShortID(h.ID)), cli.HabitLine(h))
	}
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Notes string `help:"Optional note for this completion."`
	Force bool   `help:"Record even if already completed today."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	res, err := ctx.Garden.CompleteHabit(ctx.Ctx(), h.ID, garden.CompleteOptions{Notes: c.Notes, Force: c.Force})
	if err != nil {
		return err
	}

	ctx.Printf("%s Watered %q: streak %d, health %d (+%d)\n",
		cli.SuccessStyle.Render("✓"), res.Habit.Name, res.Habit.StreakCount, res.Habit.Health, res.HealthRestored)
	if res.LeveledUp {
		ctx.Printf("🌱 Grew to stage %d: %s\n", res.Habit.CurrentStage, models.StageName(res.Habit.Theme, res.Habit.CurrentStage))
	}
	return nil
}

type HabitReviveCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitReviveCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	revived, err := ctx.Garden.ReviveHabit(ctx.Ctx(), h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("%s %q is back as a %s with %d health\n",
		cli.SuccessStyle.Render("✓"), revived.Name, models.StageName(revived.Theme, revived.CurrentStage), revived.Health)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Yes   bool   `short:"y" help:"Skip confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Delete %q and all of its history?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Garden.DeleteHabit(ctx.Ctx(), h.ID); err != nil {
		return err
	}
	ctx.Printf("%s Deleted %q\n", cli.SuccessStyle.Render("✓"), h.Name)
	return nil
}

type HabitStatsCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	st, err := ctx.Garden.Stats(ctx.Ctx(), h.ID)
	if err != nil {
		return err
	}
	// Stats re-reads the habit after decay.
	h, err = ctx.Garden.GetHabit(ctx.Ctx(), h.ID)
	if err != nil {
		return err
	}

	ctx.Println(cli.TitleStyle.Render(h.Name))
	ctx.Printf("  Theme:        %s\n", h.Theme.Title())
	ctx.Printf("  Stage:        %d/%d %s (%s)\n", h.CurrentStage, constants.MaxStage, st.StageName, st.CurrentStage.Description)
	if st.NextStage != nil {
		ctx.Printf("  Next stage:   %s in %d completion(s)\n", st.NextStage.PlantName, st.CompletionsToNextStage)
	} else {
		ctx.Println("  Next stage:   fully grown")
	}
	ctx.Printf("  Health:       %s\n", cli.HealthBar(h.Health))
	ctx.Printf("  Streak:       %d day(s)\n", h.StreakCount)
	ctx.Printf("  Completions:  %d\n", st.TotalCompletions)
	ctx.Printf("  Done today:   %t\n", st.CompletedToday)
	if h.LastCompletedAt != nil {
		ctx.Printf("  Last watered: %s\n", h.LastCompletedAt.Local().Format("2006-01-02 15:04"))
	}
	if h.IsDead {
		ctx.Println("  " + cli.WarnStyle.Render("This habit has withered. Run 'garden habit revive' to bring it back."))
	}
	return nil
}

type HabitHistoryCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Limit int    `help:"Maximum number of entries." default:"20"`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	completions, err := ctx.Garden.History(ctx.Ctx(), h.ID)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		ctx.Printf("No completions recorded for %q yet.\n", h.Name)
		return nil
	}

	ctx.Printf("History of %q (%d total):\n", h.Name, len(completions))
	for i, comp := range completions {
		if c.Limit > 0 && i >= c.Limit {
			ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("  ... %d more", len(completions)-c.Limit)))
			break
		}
		line := "  " + comp.CompletedAt.Local().Format("2006-01-02 15:04")
		if comp.Notes != "" {
			line += "  " + comp.Notes
		}
		ctx.Println(line)
	}
	return nil
}

type HabitBlockCmd struct {
	Habit  string   `arg:"" help:"Habit ID or name."`
	Enable bool     `help:"Enable blocking (use --no-enable to turn it off)." negatable:"" default:"true"`
	Apps   []string `help:"Apps to block."`
	Type   string   `help:"When to block: during_habit, time_period or until_complete." default:"until_complete" enum:"during_habit,time_period,until_complete"`
	Start  string   `help:"Start time (HH:MM) for time_period."`
	End    string   `help:"End time (HH:MM) for time_period."`
}

func (c *HabitBlockCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Garden.ResolveHabit(ctx.Ctx(), c.Habit)
	if err != nil {
		return err
	}
	settings := models.AppBlockSettings{
		Enabled:     c.Enable,
		BlockedApps: c.Apps,
		BlockType:   models.BlockType(c.Type),
		StartTime:   c.Start,
		EndTime:     c.End,
	}
	if settings.BlockedApps == nil {
		settings.BlockedApps = []string{}
	}
	updated, err := ctx.Garden.SetAppBlocking(ctx.Ctx(), h.ID, settings)
	if err != nil {
		return err
	}
	if !c.Enable {
		ctx.Printf("%s App blocking disabled for %q\n", cli.SuccessStyle.Render("✓"), updated.Name)
		return nil
	}
	ctx.Printf("%s Blocking %s for %q (%s)\n",
		cli.SuccessStyle.Render("✓"), strings.Join(c.Apps, ", "), updated.Name, c.Type)
	return nil
}
