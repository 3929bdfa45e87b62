package premium

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/storage/memory"
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

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), memory.New(), cli.Options{
		Clock:  clock.NewFixed(time.Date(2026, 2, 3, 12, 0, 0, 0, time.Local)),
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

func TestQuotaCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&QuotaCmd{}).Run(ctx); err != nil {
		t.Fatalf("quota failed: %v", err)
	}
	if !strings.Contains(out.String(), "Habit slots left this month: 10 of 10") {
		t.Errorf("unexpected quota output:\n%s", out.String())
	}

	if _, err := ctx.Garden.UnlockPremium("monthly"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&QuotaCmd{}).Run(ctx); err != nil {
		t.Fatalf("quota failed: %v", err)
	}
	if !strings.Contains(out.String(), "unlimited habits") {
		t.Errorf("expected unlimited quota, got %q", out.String())
	}
}

func TestAdsWatchCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	for i := 0; i < constants.MaxAdTries; i++ {
		if err := (&AdsWatchCmd{}).Run(ctx); err != nil {
			t.Fatalf("ads watch #%d failed: %v", i+1, err)
		}
	}
	if !strings.Contains(out.String(), "Earned a habit slot (2 earned, 0 ad tries left)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := (&AdsWatchCmd{}).Run(ctx); err == nil {
		t.Error("expected ad tries to run out")
	}

	out.Reset()
	if err := (&QuotaCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "12 of 12") {
		t.Errorf("expected earned slots in quota, got:\n%s", out.String())
	}
}

func TestAdsWatchCmd_Interrupted(t *testing.T) {
	ctx, _ := setupTestContext(t)
	base, cancel := context.WithCancel(context.Background())
	cancel()

	interrupted := cli.NewContext(base, ctx.Backend, cli.Options{
		Clock:  ctx.Clock,
		Tokens: memTokens{},
		Out:    io.Discard,
		Err:    io.Discard,
	})
	if err := interrupted.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := (&AdsWatchCmd{Duration: time.Minute}).Run(interrupted); err == nil {
		t.Fatal("expected a canceled ad session to fail")
	}

	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.AdTriesUsed != 0 || prefs.AdEarnedSlots != 0 {
		t.Errorf("interrupted session should grant nothing: %+v", prefs)
	}
}

func TestThemeCmds(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ThemeListCmd{}).Run(ctx); err != nil {
		t.Fatalf("theme list failed: %v", err)
	}
	for _, want := range []string{"rose", "Rose Garden", "🔒 sunflower"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("theme list missing %q:\n%s", want, out.String())
		}
	}

	if err := (&ThemeCheckCmd{Theme: "tulip"}).Run(ctx); err != nil {
		t.Errorf("free theme should be available: %v", err)
	}
	if err := (&ThemeCheckCmd{Theme: "iris"}).Run(ctx); err == nil {
		t.Error("premium theme should be locked")
	}
	if err := (&ThemeCheckCmd{Theme: "cactus"}).Run(ctx); err == nil {
		t.Error("unknown theme should be rejected")
	}
}

func TestPremiumCmds(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&PremiumPlansCmd{}).Run(ctx); err != nil {
		t.Fatalf("premium plans failed: %v", err)
	}
	for _, want := range []string{"$1.99", "$10.99", "Save 54%", "Lifetime"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("plans output missing %q", want)
		}
	}

	if err := (&PremiumUnlockCmd{Plan: "weekly"}).Run(ctx); err == nil {
		t.Error("expected unknown plan to be rejected")
	}
	if err := (&PremiumUnlockCmd{Plan: "onetime"}).Run(ctx); err != nil {
		t.Fatalf("premium unlock failed: %v", err)
	}
	if err := (&ThemeCheckCmd{Theme: "iris"}).Run(ctx); err != nil {
		t.Errorf("premium theme should unlock: %v", err)
	}

	if err := (&PremiumBuyCmd{Kind: "skin", ID: "golden"}).Run(ctx); err != nil {
		t.Fatalf("premium buy failed: %v", err)
	}
	if err := (&PremiumBuyCmd{Kind: "skin", ID: "golden"}).Run(ctx); err == nil {
		t.Error("buying an owned item should fail")
	}
	prefs, err := ctx.Garden.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if len(prefs.PurchasedSkins) != 1 || prefs.PurchasedSkins[0] != "golden" {
		t.Errorf("PurchasedSkins = %v", prefs.PurchasedSkins)
	}
}
