package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/cli/account"
	"github.com/julianstephens/habitgarden/internal/cli/backups"
	"github.com/julianstephens/habitgarden/internal/cli/habits"
	"github.com/julianstephens/habitgarden/internal/cli/premium"
	"github.com/julianstephens/habitgarden/internal/cli/settings"
	"github.com/julianstephens/habitgarden/internal/cli/system"
	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/dsn"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/utils"
)

type CLI struct {
	Version   kong.VersionFlag
	Config    string        `help:"Garden file path (.db or .json) or a PostgreSQL/Redis connection string. Defaults to GARDEN_DB_CONNECTION, then the OS keyring, then ~/.config/habitgarden/garden.db." env:"GARDEN_CONFIG"`
	APIURL    string        `name:"api-url" help:"Base URL of the gardend sync server." env:"GARDEN_API_URL"`
	LocalOnly bool          `help:"Never talk to the sync server, even when signed in."`
	Timeout   time.Duration `help:"Timeout for each sync server request." default:"15s"`
	Timezone  string        `help:"IANA timezone that decides where a day starts." env:"GARDEN_TZ" default:"Local"`
	Debug     bool          `help:"Log debug output to stderr." env:"GARDEN_DEBUG"`

	Init    system.InitCmd     `cmd:"" help:"Initialize garden storage."`
	Migrate system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Habit   habits.HabitCmd    `cmd:"" help:"Grow and tend habits." default:"1"`
	Quota   premium.QuotaCmd   `cmd:"" help:"Show this month's habit slots."`
	Theme   premium.ThemeCmd   `cmd:"" help:"Browse garden themes."`
	Ads     premium.AdsCmd     `cmd:"" help:"Watch ads to earn habit slots."`
	Premium premium.PremiumCmd `cmd:"" help:"Plans and purchases."`
	Prefs   settings.PrefsCmd  `cmd:"" help:"Show or change preferences."`
	Auth    account.AuthCmd    `cmd:"" help:"Manage your sync account."`
	Export  system.ExportCmd   `cmd:"" help:"Export your garden as JSON."`
	Import  system.ImportCmd   `cmd:"" help:"Replace your garden from an export file."`
	Reset   system.ResetCmd    `cmd:"" help:"Clear your garden on this device."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage garden backups."`
}

func main() {
	errors.Fatal(run(os.Args[1:]))
}

// run executes one command. Storage is closed before it returns, so callers
// may exit on the returned error.
func run(args []string) error {
	var cmd CLI
	parser, err := kong.New(&cmd,
		kong.Name("garden"),
		kong.Description("Grow a garden of habits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logDir := filepath.Dir(constants.DefaultConfigPath)
	if dir, err := dsn.ExpandHome(logDir); err == nil {
		logDir = dir
	}
	if err := logger.Init(logger.Config{Debug: cmd.Debug, ConfigDir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	loc, err := utils.LoadLocation(cmd.Timezone)
	if err != nil {
		return err
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := dsn.Open(cmd.Config)
	if err != nil {
		return err
	}
	defer backend.Close()

	appCtx := cli.NewContext(base, backend, cli.Options{
		APIURL:    cmd.APIURL,
		LocalOnly: cmd.LocalOnly,
		Timeout:   cmd.Timeout,
		Clock:     clock.System(loc),
	})

	// Init handles its own storage setup
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		if err := backend.Load(); err != nil {
			return err
		}
		if err := appCtx.Connect(); err != nil {
			return err
		}
	}

	return ctx.Run(appCtx)
}
