// Package storagetest provides a conformance suite shared by every Backend.
package storagetest

import (
	"errors"
	"testing"

	"github.com/julianstephens/habitgarden/internal/storage"
)

// Run exercises the Backend contract against a freshly initialized backend
// returned by newBackend.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	t.Run("get missing key", func(t *testing.T) {
		b := newBackend(t)
		if _, err := b.Get("habits_nobody"); !errors.Is(err, storage.ErrKeyNotFound) {
			t.Errorf("Get() err = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Set("habits_guest", []byte(`[{"id":"a"}]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := b.Get("habits_guest")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !jsonEqual(t, got, []byte(`[{"id":"a"}]`)) {
			t.Errorf("Get() = %s", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		b := newBackend(t)
		mustSet(t, b, "k", `{"v":1}`)
		mustSet(t, b, "k", `{"v":2}`)
		got, err := b.Get("k")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !jsonEqual(t, got, []byte(`{"v":2}`)) {
			t.Errorf("Get() = %s, want {\"v\":2}", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		b := newBackend(t)
		mustSet(t, b, "k", `"x"`)
		if err := b.Delete("k"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := b.Get("k"); !errors.Is(err, storage.ErrKeyNotFound) {
			t.Errorf("Get after Delete err = %v, want ErrKeyNotFound", err)
		}
		if err := b.Delete("never-set"); err != nil {
			t.Errorf("Delete of missing key err = %v, want nil", err)
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		b := newBackend(t)
		mustSet(t, b, "habits_b@example.com", `[]`)
		mustSet(t, b, "habits_a@example.com", `[]`)
		mustSet(t, b, "completions_a@example.com", `[]`)
		mustSet(t, b, "habits%literal", `[]`)

		keys, err := b.Keys("habits_")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		want := []string{"habits_a@example.com", "habits_b@example.com"}
		if len(keys) != len(want) {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
	})
}

func mustSet(t *testing.T, b storage.Backend, key, value string) {
	t.Helper()
	if err := b.Set(key, []byte(value)); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}
