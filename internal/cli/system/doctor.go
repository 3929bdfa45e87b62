package system

import (
	"fmt"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	check := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	check("Storage reachable", checkStorage(ctx), false)
	check("Garden data readable", checkData(ctx), false)
	check("Backups present", checkBackups(ctx), true)
	check("OS keyring", checkKeyring(), true)
	if ctx.Garden.Identity().Authenticated {
		check("Sync server", checkRemote(ctx), true)
	}

	users, err := ctx.Store.Users()
	if err == nil && len(users) > 0 {
		ctx.Printf("\nGardens on this device: %v\n", users)
	}

	ctx.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkStorage(ctx *cli.Context) error {
	_, err := ctx.Backend.Keys(constants.CurrentUserKey)
	return err
}

func checkData(ctx *cli.Context) error {
	user := ctx.Garden.Identity().UserID
	habits, err := ctx.Store.Habits(user)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.Completions(user); err != nil {
		return err
	}
	if _, err := ctx.Store.Preferences(user); err != nil {
		return err
	}
	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		ids[h.ID] = true
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; run 'garden backup create'")
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("keyring unavailable; sessions and connection strings cannot be stored")
	}
	return nil
}

func checkRemote(ctx *cli.Context) error {
	if err := ctx.RequireRemote(); err != nil {
		return err
	}
	_, err := ctx.Auth.Me(ctx.Ctx())
	return err
}
