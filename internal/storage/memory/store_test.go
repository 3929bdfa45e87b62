package memory

import (
	"testing"

	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/storage/storagetest"
)

func TestMemoryBackend(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		return New()
	})
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	if err := s.Set("k", []byte(`"abc"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ := s.Get("k")
	v[1] = 'z'
	again, _ := s.Get("k")
	if string(again) != `"abc"` {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}
