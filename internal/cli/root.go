// Package cli holds the shared context of the garden commands. Command
// groups live in the subpackages.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitgarden/internal/auth"
	"github.com/julianstephens/habitgarden/internal/backup"
	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/datalayer"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/remote"
	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/storage/jsonfile"
	"github.com/julianstephens/habitgarden/internal/storage/sqlite"
	"github.com/julianstephens/habitgarden/internal/store"
)

// Options configure a Context before it is connected.
type Options struct {
	// APIURL enables account commands and remote sync when set.
	APIURL    string
	LocalOnly bool
	// Timeout bounds each API request. Zero keeps the client default.
	Timeout time.Duration
	Clock   clock.Clock
	Tokens  auth.TokenStore
	Prompt  Prompter
	Out     io.Writer
	Err     io.Writer
}

type Context struct {
	Backend storage.Backend
	Store   *store.Store
	Auth    *auth.Manager
	Garden  *garden.Service
	Clock   clock.Clock
	Prompt  Prompter
	Out     io.Writer
	Err     io.Writer

	base      context.Context
	apiURL    string
	localOnly bool
	timeout   time.Duration
	tokens    auth.TokenStore
	client    *remote.Client
}

func NewContext(base context.Context, backend storage.Backend, opts Options) *Context {
	if base == nil {
		base = context.Background()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System(nil)
	}
	if opts.Tokens == nil {
		opts.Tokens = auth.KeyringTokens{}
	}
	if opts.Prompt == nil {
		opts.Prompt = HuhPrompter{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &Context{
		Backend:   backend,
		Clock:     opts.Clock,
		Prompt:    opts.Prompt,
		Out:       opts.Out,
		Err:       opts.Err,
		base:      base,
		apiURL:    opts.APIURL,
		localOnly: opts.LocalOnly,
		timeout:   opts.Timeout,
		tokens:    opts.Tokens,
	}
}

// Ctx is the command's cancellation context.
func (c *Context) Ctx() context.Context {
	return c.base
}

// Connect builds the store, session manager and garden service over the
// loaded backend. It is called again after the identity changes.
func (c *Context) Connect() error {
	c.Store = store.New(c.Backend, c.Clock)

	c.client = nil
	if c.apiURL != "" {
		opts := []remote.Option{remote.WithTokenSource(auth.SessionTokens{Store: c.Store, Tokens: c.tokens})}
		if c.timeout > 0 {
			opts = append(opts, remote.WithTimeout(c.timeout))
		}
		c.client = remote.New(c.apiURL, opts...)
	}
	c.Auth = auth.NewManager(c.client, c.Store, c.tokens)

	id, err := c.Auth.Current()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var rem datalayer.Repository
	if c.client != nil {
		rem = datalayer.NewRemote(c.client)
	}
	repo := datalayer.NewReconciler(datalayer.NewLocal(c.Store, id.UserID), rem, datalayer.Options{
		Authenticated:  id.Authenticated,
		ForceLocalOnly: c.localOnly,
		OnWarning:      c.warn,
	})
	if id.Authenticated && !repo.Synced() {
		logger.Debug("Signed in but sync is off", "email", id.Email, "apiURL", c.apiURL != "", "localOnly", c.localOnly)
	}

	c.Garden = garden.New(garden.Context{
		Identity:   id,
		Store:      c.Store,
		Repository: repo,
		Clock:      c.Clock,
	})
	return nil
}

func (c *Context) warn(w datalayer.Warning) {
	fmt.Fprintln(c.Err, WarnStyle.Render("⚠ "+w.String()))
}

// RequireRemote fails when no API server is configured.
func (c *Context) RequireRemote() error {
	if c.client == nil {
		return fmt.Errorf("no API server configured; set --api-url or GARDEN_API_URL")
	}
	return nil
}

// BackupManager returns a backup manager for file-based gardens.
func (c *Context) BackupManager() (*backup.Manager, error) {
	switch c.Backend.(type) {
	case *sqlite.Store, *jsonfile.Store:
		return backup.NewManager(c.Backend.GetConfigPath()).WithClock(c.Clock), nil
	default:
		return nil, fmt.Errorf("backups are only supported for SQLite and JSON gardens (current: %s)", c.Backend.GetConfigPath())
	}
}

// PerformAutomaticBackup snapshots file-based gardens before destructive
// commands. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}
