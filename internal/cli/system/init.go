package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/dsn"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/storage/jsonfile"
	"github.com/julianstephens/habitgarden/internal/storage/sqlite"
)

type InitCmd struct {
	Force   bool   `help:"Delete an existing SQLite or JSON garden before initializing."`
	Keyring string `help:"Store a PostgreSQL or Redis connection string in the OS keyring and initialize that database."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Keyring != "" {
		switch dsn.Detect(c.Keyring) {
		case dsn.KindPostgres, dsn.KindRedis:
		default:
			return fmt.Errorf("--keyring expects a PostgreSQL or Redis connection string")
		}
		backend, err := dsn.New(c.Keyring, true)
		if err != nil {
			return err
		}
		if err := keyring.SetConnectionString(c.Keyring); err != nil {
			return fmt.Errorf("failed to store connection string in keyring: %w", err)
		}
		ctx.Println("✓ Connection string stored in OS keyring")
		ctx.Backend = backend
	}

	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized garden storage at: %s\n", ctx.Backend.GetConfigPath())
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	switch ctx.Backend.(type) {
	case *sqlite.Store, *jsonfile.Store:
	default:
		return fmt.Errorf("--force only applies to SQLite and JSON gardens")
	}

	path := ctx.Backend.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing garden: %w", err)
	}
	if err := ctx.Backend.Close(); err != nil {
		return fmt.Errorf("failed to close existing garden: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing garden: %w", err)
	}
	ctx.Printf("Deleted existing garden at: %s\n", path)
	return nil
}
