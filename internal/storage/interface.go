// Package storage defines the key-value contract the persistence store is
// built on. Implementations live in the subpackages.
package storage

import "errors"

// ErrKeyNotFound is returned by Get when the key has never been set or was deleted.
var ErrKeyNotFound = errors.New("key not found")

// ErrNotLoaded is returned when a backend is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Backend is a flat key-value store of JSON documents.
type Backend interface {
	// Init creates the underlying storage (file, schema, tables) if needed.
	Init() error
	// Load opens previously initialized storage.
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys lists keys starting with prefix in lexical order.
	Keys(prefix string) ([]string, error)

	// GetConfigPath returns a non-sensitive description of where data lives.
	GetConfigPath() string
}

// Migrator is implemented by SQL backends with versioned schemas.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
}
