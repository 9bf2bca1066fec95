package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/geolist/internal/models"
)

func TestFileStore(t *testing.T) {
	t.Run("write-through persists across instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "origins.json")

		store := NewFileStore[models.Origin](path, nil)
		origin := models.Origin{Status: models.StatusSuccess, City: "Bergen", Country: "Norway"}
		if err := store.Put("Kings of Convenience", origin); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		reopened := NewFileStore[models.Origin](path, nil)
		got, ok := reopened.Get("Kings of Convenience")
		if !ok {
			t.Fatal("expected cached entry after reopen")
		}
		if got != origin {
			t.Errorf("got %+v, want %+v", got, origin)
		}
	})

	t.Run("missing file starts empty", func(t *testing.T) {
		store := NewFileStore[models.Coordinate](filepath.Join(t.TempDir(), "nope.json"), nil)
		if store.Len() != 0 {
			t.Errorf("expected empty store, got %d entries", store.Len())
		}
	})

	t.Run("corrupt file starts empty and recovers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
			t.Fatal(err)
		}

		store := NewFileStore[models.Coordinate](path, nil)
		if store.Len() != 0 {
			t.Fatalf("expected empty store for corrupt file, got %d", store.Len())
		}

		coord := models.Coordinate{Lat: 60.39, Lng: 5.32}
		if err := store.Put("Bergen, Norway", coord); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		reopened := NewFileStore[models.Coordinate](path, nil)
		if got, ok := reopened.Get("Bergen, Norway"); !ok || got != coord {
			t.Errorf("expected rewritten cache to hold entry, got %+v ok=%v", got, ok)
		}
	})

	t.Run("creates parent directories on put", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
		store := NewFileStore[models.Coordinate](path, nil)

		if err := store.Put("k", models.Coordinate{Lat: 1, Lng: 2}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected cache file to exist: %v", err)
		}
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		store := NewFileStore[models.Coordinate](filepath.Join(t.TempDir(), "c.json"), nil)
		store.Put("k", models.Coordinate{Lat: 1, Lng: 1})
		store.Put("k", models.Coordinate{Lat: 2, Lng: 2})

		if store.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", store.Len())
		}
		if got, _ := store.Get("k"); got.Lat != 2 {
			t.Errorf("expected overwritten value, got %+v", got)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore[models.Origin]()

	if _, ok := store.Get("missing"); ok {
		t.Error("expected miss on empty store")
	}

	origin := models.Origin{Status: models.StatusNotFound}
	if err := store.Put("Nobody", origin); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := store.Get("Nobody")
	if !ok || got != origin {
		t.Errorf("got %+v ok=%v, want %+v", got, ok, origin)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", store.Len())
	}
}
