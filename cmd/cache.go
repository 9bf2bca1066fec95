package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/geolist/internal/cache"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/urfave/cli/v3"
)

// CacheStats prints entry counts for the lookup caches.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.openStores(); err != nil {
		return err
	}

	r.writePlain("Cache backend: %s\n\n", r.config.Cache.Backend)
	r.writePlain("Artist origins:  %d entries\n", r.originStore.Len())
	r.writePlain("Geocoded places: %d entries\n", r.coordStore.Len())

	return nil
}

// CacheClear deletes all cached lookups. Cleared entries are refetched
// from the external services on the next run.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("force") {
		r.writePlain("This deletes all cached lookups; the next run refetches everything.\n")
		r.writePlain("Re-run with --force to confirm.\n")
		return nil
	}

	switch r.config.Cache.Backend {
	case "sqlite":
		if err := r.openStores(); err != nil {
			return err
		}
		origins, ok := r.originStore.(*cache.SQLiteStore[models.Origin])
		if !ok {
			return fmt.Errorf("unexpected origin store type for sqlite backend")
		}
		coords, ok := r.coordStore.(*cache.SQLiteStore[models.Coordinate])
		if !ok {
			return fmt.Errorf("unexpected coordinate store type for sqlite backend")
		}
		if err := origins.Clear(); err != nil {
			return fmt.Errorf("failed to clear origin cache: %w", err)
		}
		if err := coords.Clear(); err != nil {
			return fmt.Errorf("failed to clear geocode cache: %w", err)
		}
	default:
		dir := r.config.Cache.Dir
		if dir == "" {
			dir = "data/cache"
		}
		for _, name := range []string{"mb_cache.json", "geocode_cache.json"} {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
		r.originStore = nil
		r.coordStore = nil
	}

	r.logger.Info("caches cleared", "backend", r.config.Cache.Backend)
	r.writePlain("✓ Caches cleared\n")

	return nil
}
