package main

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/storage/sqlite"
	"github.com/julianstephens/habitgarden/internal/store"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GARDEN_DEBUG", "false")
	t.Setenv("GARDEN_API_URL", "")
	t.Setenv("GARDEN_TZ", "UTC")
	return filepath.Join(t.TempDir(), "garden.db")
}

func TestRunReturnsCommandErrors(t *testing.T) {
	path := setupEnv(t)

	if err := run([]string{"--config", path, "init"}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := run([]string{"--config", path, "habit", "add", "Read"}); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	err := run([]string{"--config", path, "habit", "done", "Walk"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("habit done on unknown habit err = %v, want ErrNotFound", err)
	}

	// A failed command leaves the garden usable by the next one.
	if err := run([]string{"--config", path, "habit", "done", "Read"}); err != nil {
		t.Fatalf("habit done after failure: %v", err)
	}

	backend := sqlite.NewStore(path)
	if err := backend.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer backend.Close()
	completions, err := store.New(backend, clock.System(nil)).Completions("guest")
	if err != nil {
		t.Fatalf("Completions failed: %v", err)
	}
	if len(completions) != 1 {
		t.Errorf("expected 1 completion, got %d", len(completions))
	}
}

func TestRunRejectsUnknownTimezone(t *testing.T) {
	path := setupEnv(t)
	if err := run([]string{"--config", path, "init"}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := run([]string{"--config", path, "--timezone", "Not/AZone", "habit", "list"}); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}
