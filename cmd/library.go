package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/geolist/internal/shared"
	"github.com/desertthunder/geolist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LibraryBuild fetches the user's saved tracks from Spotify and groups
// them into a per-artist library, persisted as JSON.
func (r *Runner) LibraryBuild(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'geolist auth' first", shared.ErrNotAuthenticated)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = r.config.Library.Path
	}

	r.logger.Info("fetching saved tracks from Spotify")

	items, err := r.spotify.FetchSavedTracks(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Infof("fetched %d saved tracks", len(items))

	library := tasks.BuildLibrary(items, nil)
	if err := library.Save(outputPath); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	r.writePlain("✓ Library built: %s\n", outputPath)
	r.writePlain("  Tracks: %d\n", len(items))
	r.writePlain("  Artists: %d\n", len(library))

	return nil
}

// LibraryShow prints the persisted library.
func (r *Runner) LibraryShow(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	library, err := r.loadLibrary("")
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(library, pretty)
	}

	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)

	if limit > 0 && limit < len(names) {
		names = names[:limit]
	}

	r.writePlain("Library: %d artists\n\n", len(library))
	for i, name := range names {
		record := library[name]
		r.writePlain("%d. %s (%d tracks)\n", i+1, name, len(record.Songs))
		if record.Origin != nil {
			if loc := record.Origin.LocationString(); loc != "" {
				r.writePlain("   Origin: %s\n", loc)
			} else {
				r.writePlain("   Origin: %s\n", record.Origin.Status)
			}
		}
	}

	return nil
}
