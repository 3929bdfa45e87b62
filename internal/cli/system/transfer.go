package system

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/store"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Store.Export(ctx.Garden.Identity().UserID)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if c.Output == "" {
		ctx.Println(string(out))
		return nil
	}
	if err := os.WriteFile(c.Output, append(out, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	ctx.Printf("✓ Exported %d habit(s) and %d completion(s) to %s\n", len(data.Habits), len(data.Completions), c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var data store.Export
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid export file: %w", err)
	}
	if data.Version > store.ExportVersion {
		return fmt.Errorf("export version %d is newer than supported version %d", data.Version, store.ExportVersion)
	}

	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Replace your garden with %d habit(s) from %s?", len(data.Habits), c.File))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Import(ctx.Garden.Identity().UserID, data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.Printf("✓ Imported %d habit(s) and %d completion(s)\n", len(data.Habits), len(data.Completions))
	return nil
}

// ResetCmd wipes the current identity's garden from this device.
type ResetCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	user := ctx.Garden.Identity().UserID
	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Delete every local habit, completion and preference of %s?", user))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Clear(user); err != nil {
		return err
	}
	ctx.Printf("✓ Local garden of %s cleared\n", user)
	return nil
}
