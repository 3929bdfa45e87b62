package settings

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/storage/jsonfile"
)

type memTokens map[string]string

func (m memTokens) Get(email string) (string, error) {
	if t, ok := m[email]; ok {
		return t, nil
	}
	return "", keyring.ErrNotFound
}

func (m memTokens) Set(email, token string) error {
	m[email] = token
	return nil
}

func (m memTokens) Delete(email string) error {
	delete(m, email)
	return nil
}

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	backend := jsonfile.NewStore(filepath.Join(t.TempDir(), "garden.json"))
	if err := backend.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), backend, cli.Options{
		Tokens: memTokens{},
		Prompt: &cli.ScriptedPrompter{},
		Out:    out,
		Err:    io.Discard,
	})
	if err := ctx.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return ctx, out
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPrefsShowCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&PrefsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("prefs show failed: %v", err)
	}
	for _, want := range []string{"Garden Name:           (unnamed)", "Default Theme:         rose", "Logged In:             false"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("prefs show missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrefsSetCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	cmd := &PrefsSetCmd{
		GardenName:       strPtr("Backyard"),
		DefaultTheme:     strPtr("Tulip"),
		DarkMode:         boolPtr(true),
		NotificationTime: strPtr("07:30"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("prefs set failed: %v", err)
	}

	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.GardenName != "Backyard" || prefs.DefaultTheme != models.ThemeTulip || !prefs.DarkMode || prefs.NotificationTime != "07:30" {
		t.Errorf("preferences not updated: %+v", prefs)
	}
	// Untouched fields keep their defaults.
	if !prefs.StreaksEnabled {
		t.Error("streaks should stay enabled")
	}

	out.Reset()
	if err := (&PrefsSetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestPrefsSetCmd_Validation(t *testing.T) {
	ctx, _ := setupTestDB(t)

	tests := []struct {
		name string
		cmd  PrefsSetCmd
	}{
		{"unknown theme", PrefsSetCmd{DefaultTheme: strPtr("cactus")}},
		{"premium theme", PrefsSetCmd{DefaultTheme: strPtr("lavender")}},
		{"bad time", PrefsSetCmd{NotificationTime: strPtr("7pm")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.DefaultTheme != "" || prefs.NotificationTime != "" {
		t.Errorf("rejected changes were saved: %+v", prefs)
	}
}

func TestPrefsResetCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if _, err := ctx.Garden.UnlockPremium(models.PlanMonthly); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Garden.PurchaseItem(models.ItemBackground, "meadow"); err != nil {
		t.Fatal(err)
	}
	if err := (&PrefsSetCmd{GardenName: strPtr("Backyard"), DarkMode: boolPtr(true)}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&PrefsResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("prefs reset failed: %v", err)
	}
	if !strings.Contains(out.String(), "Preferences restored to defaults.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.GardenName != "" || prefs.DarkMode || !prefs.StreaksEnabled {
		t.Errorf("settings were not reset: %+v", prefs)
	}
	if !prefs.IsPremium || prefs.PremiumPlan != models.PlanMonthly {
		t.Errorf("premium should survive a reset: %+v", prefs)
	}
	if len(prefs.PurchasedBackgrounds) != 1 || prefs.PurchasedBackgrounds[0] != "meadow" {
		t.Errorf("purchases should survive a reset: %v", prefs.PurchasedBackgrounds)
	}
}
