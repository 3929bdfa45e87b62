package account

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/config"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/server"
	"github.com/julianstephens/habitgarden/internal/storage/memory"
	"github.com/julianstephens/habitgarden/internal/store"
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

type testEnv struct {
	ctx    *cli.Context
	out    *bytes.Buffer
	prompt *cli.ScriptedPrompter
	tokens memTokens
	remote *store.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 4, 20, 18, 0, 0, 0, time.UTC))

	remoteStore := store.New(memory.New(), clk)
	srv := server.New(config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		JWT:       config.JWTConfig{Secret: "cli-test-secret-0123456789", TTL: time.Hour},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 50, Window: time.Minute},
	}, remoteStore, clk)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{
		out:    &bytes.Buffer{},
		prompt: &cli.ScriptedPrompter{},
		tokens: memTokens{},
		remote: remoteStore,
	}
	env.ctx = cli.NewContext(context.Background(), memory.New(), cli.Options{
		APIURL: ts.URL,
		Clock:  clk,
		Tokens: env.tokens,
		Prompt: env.prompt,
		Out:    env.out,
		Err:    io.Discard,
	})
	if err := env.ctx.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return env
}

func TestAccountLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.prompt.Inputs = []string{"ada@example.com"}
	env.prompt.Passwords = []string{"hunter22"}
	if err := (&RegisterCmd{Name: "Ada"}).Run(env.ctx); err != nil {
		t.Fatalf("auth register failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Account created for ada@example.com") {
		t.Errorf("unexpected output: %q", env.out.String())
	}
	if env.tokens["ada@example.com"] == "" {
		t.Fatal("expected the session token to be stored")
	}

	if err := env.ctx.Connect(); err != nil {
		t.Fatal(err)
	}
	if id := env.ctx.Garden.Identity(); !id.Authenticated || id.Email != "ada@example.com" {
		t.Fatalf("identity = %+v", id)
	}

	// Signed-in writes land on the server.
	if _, err := env.ctx.Garden.CreateHabit(ctx, models.HabitDraft{Name: "Meditate", Theme: models.ThemeRose, GoalFrequency: models.FrequencyDaily}); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	habits, err := env.remote.Habits("ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Name != "Meditate" {
		t.Errorf("server habits = %+v", habits)
	}

	env.out.Reset()
	if err := (&WhoamiCmd{Remote: true}).Run(env.ctx); err != nil {
		t.Fatalf("auth whoami failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Server account: ada@example.com") {
		t.Errorf("unexpected whoami output: %q", env.out.String())
	}

	env.out.Reset()
	if err := (&LogoutCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("auth logout failed: %v", err)
	}
	if _, ok := env.tokens["ada@example.com"]; ok {
		t.Error("logout should remove the session token")
	}
	if err := (&WhoamiCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "Guest (not signed in)") {
		t.Errorf("unexpected output after logout: %q", env.out.String())
	}

	env.out.Reset()
	if err := (&LogoutCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "Not signed in.") {
		t.Errorf("unexpected output: %q", env.out.String())
	}
}

func TestLoginCmd(t *testing.T) {
	env := setupTestEnv(t)

	if err := (&RegisterCmd{Email: "bo@example.com", Password: "hunter22", Name: "Bo"}).Run(env.ctx); err != nil {
		t.Fatalf("auth register failed: %v", err)
	}
	if err := (&LogoutCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}

	err := (&LoginCmd{Email: "bo@example.com", Password: "wrong-password"}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("expected bad credentials, got %v", err)
	}

	env.out.Reset()
	env.prompt.Passwords = []string{"hunter22"}
	if err := (&LoginCmd{Email: "BO@example.com"}).Run(env.ctx); err != nil {
		t.Fatalf("auth login failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Signed in as Bo (bo@example.com)") {
		t.Errorf("unexpected output: %q", env.out.String())
	}
}

func TestAccountCmds_RequireAPIServer(t *testing.T) {
	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), memory.New(), cli.Options{
		Tokens: memTokens{},
		Prompt: &cli.ScriptedPrompter{},
		Out:    out,
		Err:    io.Discard,
	})
	if err := ctx.Connect(); err != nil {
		t.Fatal(err)
	}

	if err := (&RegisterCmd{Email: "a@example.com", Password: "hunter22"}).Run(ctx); err == nil {
		t.Error("register should need an API server")
	}
	if err := (&LoginCmd{Email: "a@example.com", Password: "hunter22"}).Run(ctx); err == nil {
		t.Error("login should need an API server")
	}
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Errorf("whoami should work offline: %v", err)
	}
}
