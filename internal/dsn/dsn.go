// Package dsn turns a --config value into a storage backend.
package dsn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/storage/jsonfile"
	"github.com/julianstephens/habitgarden/internal/storage/memory"
	"github.com/julianstephens/habitgarden/internal/storage/postgres"
	"github.com/julianstephens/habitgarden/internal/storage/redis"
	"github.com/julianstephens/habitgarden/internal/storage/sqlite"
)

type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindJSON     Kind = "json"
	KindMemory   Kind = "memory"
)

// MemoryDSN selects the in-process backend. Nothing survives exit.
const MemoryDSN = ":memory:"

// Detect classifies a connection string or path.
func Detect(s string) Kind {
	switch {
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"), strings.Contains(s, "host="):
		return KindPostgres
	case strings.HasPrefix(s, "redis://"), strings.HasPrefix(s, "rediss://"):
		return KindRedis
	case s == MemoryDSN:
		return KindMemory
	case strings.HasSuffix(strings.ToLower(s), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Resolve picks the connection string to use. An explicit value wins, then
// GARDEN_DB_CONNECTION, then a connection string saved in the OS keyring, and
// finally the default SQLite path.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env
	}
	if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
		return connStr
	}
	return constants.DefaultConfigPath
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// New builds an unopened backend for s. The caller runs Init or Load.
// Postgres URLs passed on the command line must not carry a password;
// trusted sources (env, keyring) are allowed to.
func New(s string, trusted bool) (storage.Backend, error) {
	switch Detect(s) {
	case KindPostgres:
		if !trusted {
			if _, err := postgres.ValidateConnString(s); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; use 'garden init --keyring' or %s: %w", constants.EnvDBConnection, err)
				}
				return nil, err
			}
		}
		return postgres.New(s), nil
	case KindRedis:
		return redis.New(s), nil
	case KindMemory:
		return memory.New(), nil
	case KindJSON:
		path, err := ExpandHome(s)
		if err != nil {
			return nil, err
		}
		return jsonfile.NewStore(path), nil
	default:
		path, err := ExpandHome(s)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

// Open resolves explicit and builds the matching backend.
func Open(explicit string) (storage.Backend, error) {
	return New(Resolve(explicit), explicit == "")
}
