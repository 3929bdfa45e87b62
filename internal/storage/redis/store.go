// Package redis stores the key space in a Redis database under a fixed
// namespace so it can share an instance with other applications.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/habitgarden/internal/storage"
)

const (
	// Namespace prefixes every key written by this backend.
	Namespace = "habitgarden:"

	opTimeout = 5 * time.Second
	scanCount = 100
)

type Store struct {
	url    string
	client *redis.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) open() error {
	if s.client != nil {
		return nil
	}
	opts, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 1
	s.client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		_ = s.client.Close()
		s.client = nil
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// Init and Load both just connect; Redis needs no schema.
func (s *Store) Init() error {
	return s.open()
}

func (s *Store) Load() error {
	return s.open()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, Namespace+key).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

func (s *Store) Set(key string, value []byte) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Set(ctx, Namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Del(ctx, Namespace+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	seen := map[string]struct{}{}
	iter := s.client.Scan(ctx, 0, Namespace+escapeGlob(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		seen[strings.TrimPrefix(iter.Val(), Namespace)] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return "redis"
}

// escapeGlob quotes characters SCAN MATCH would treat as patterns.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
