package cache

import (
	"path/filepath"
	"testing"

	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/shared"
)

func TestSQLiteStore(t *testing.T) {
	t.Run("write-through persists across instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")

		db, err := shared.NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		store, err := NewSQLiteStore[models.Origin](db, "origins", nil)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		origin := models.Origin{Status: models.StatusSuccess, Country: "Iceland"}
		if err := store.Put("Sigur Rós", origin); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		reopened, err := NewSQLiteStore[models.Origin](db, "origins", nil)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		got, ok := reopened.Get("Sigur Rós")
		if !ok || got != origin {
			t.Errorf("got %+v ok=%v, want %+v", got, ok, origin)
		}
	})

	t.Run("buckets are isolated", func(t *testing.T) {
		db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		origins, err := NewSQLiteStore[models.Origin](db, "origins", nil)
		if err != nil {
			t.Fatal(err)
		}
		coords, err := NewSQLiteStore[models.Coordinate](db, "geocodes", nil)
		if err != nil {
			t.Fatal(err)
		}

		origins.Put("shared-key", models.Origin{Status: models.StatusNotFound})
		coords.Put("shared-key", models.Coordinate{Lat: 1, Lng: 2})

		if origins.Len() != 1 || coords.Len() != 1 {
			t.Fatalf("expected 1 entry each, got %d and %d", origins.Len(), coords.Len())
		}

		reopenedOrigins, err := NewSQLiteStore[models.Origin](db, "origins", nil)
		if err != nil {
			t.Fatal(err)
		}
		if reopenedOrigins.Len() != 1 {
			t.Errorf("expected origins bucket to hold 1 entry, got %d", reopenedOrigins.Len())
		}
	})

	t.Run("Clear empties the bucket", func(t *testing.T) {
		db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		store, err := NewSQLiteStore[models.Coordinate](db, "geocodes", nil)
		if err != nil {
			t.Fatal(err)
		}

		store.Put("Bergen, Norway", models.Coordinate{Lat: 60.39, Lng: 5.32})
		if err := store.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if store.Len() != 0 {
			t.Errorf("expected empty store after clear, got %d", store.Len())
		}

		reopened, err := NewSQLiteStore[models.Coordinate](db, "geocodes", nil)
		if err != nil {
			t.Fatal(err)
		}
		if reopened.Len() != 0 {
			t.Errorf("expected clear to persist, got %d entries", reopened.Len())
		}
	})
}
