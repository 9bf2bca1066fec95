package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/geolist/internal/formatter"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/urfave/cli/v3"
)

// Enrich resolves origin locations for every artist in the library
// that does not have one yet, then persists the updated library.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	libraryPath := cmd.String("library")
	if libraryPath == "" {
		libraryPath = r.config.Library.Path
	}

	library, err := r.loadLibrary(libraryPath)
	if err != nil {
		return err
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	r.logger.Infof("resolving origins for %d artists", len(library))

	stats, err := engine.EnrichLocations(ctx, library, nil)
	if err != nil {
		return err
	}

	if err := library.Save(libraryPath); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	r.writePlain("%s\n", formatter.RenderResolveStats(stats))
	if top := stats.TopErrors(5); len(top) > 0 {
		r.writePlain("%s\n", formatter.RenderTopErrors(top))
	}
	r.writePlain("✓ Library updated: %s\n", libraryPath)

	return nil
}

// Geocode converts resolved origins into coordinates and writes the
// coordinate map artifacts.
func (r *Runner) Geocode(ctx context.Context, cmd *cli.Command) error {
	libraryPath := cmd.String("library")
	writeGeoJSON := cmd.Bool("geojson")
	writeCSV := cmd.Bool("csv")

	library, err := r.loadLibrary(libraryPath)
	if err != nil {
		return err
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	coords, stats, err := engine.GeocodeLibrary(ctx, library, nil)
	if err != nil {
		return err
	}

	if err := r.writeArtifacts(coords, writeGeoJSON, writeCSV); err != nil {
		return err
	}

	r.writePlain("%s\n", formatter.RenderGeocodeStats(stats))
	if top := stats.TopErrors(5); len(top) > 0 {
		r.writePlain("%s\n", formatter.RenderTopErrors(top))
	}

	return nil
}

// Run executes the full pipeline. With --tui it hands the terminal to
// the interactive UI; otherwise progress goes to the logger.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	libraryPath := cmd.String("library")

	var library models.Library
	if libraryPath != "" {
		var err error
		if library, err = r.loadLibrary(libraryPath); err != nil {
			return err
		}
	} else if loaded, err := r.loadLibrary(""); err == nil {
		library = loaded
	}

	if cmd.Bool("tui") {
		return r.runTUI(ctx, library)
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, library, nil)
	if err != nil {
		return err
	}

	savePath := libraryPath
	if savePath == "" {
		savePath = r.config.Library.Path
	}
	if err := result.Library.Save(savePath); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	if err := r.writeArtifacts(result.Coordinates, true, false); err != nil {
		return err
	}

	r.writePlain("%s\n", formatter.RenderResolveStats(result.ResolveStats))
	r.writePlain("%s\n", formatter.RenderGeocodeStats(result.GeocodeStats))
	if top := result.ResolveStats.TopErrors(5); len(top) > 0 {
		r.writePlain("%s\n", formatter.RenderTopErrors(top))
	}

	return nil
}

// writeArtifacts persists the coordinate map outputs under the
// configured output directory.
func (r *Runner) writeArtifacts(coords *models.CoordinateMap, geoJSON, csv bool) error {
	outDir := r.config.Output.Dir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	mapPath := filepath.Join(outDir, "artist_map.json")
	if err := formatter.WriteCoordinateMap(coords, mapPath); err != nil {
		return fmt.Errorf("failed to write coordinate map: %w", err)
	}
	r.writePlain("✓ Coordinate map written: %s (%d locations)\n", mapPath, coords.Len())

	if geoJSON {
		geoPath := filepath.Join(outDir, "artist_map.geojson")
		if err := formatter.WriteGeoJSON(coords, geoPath); err != nil {
			return fmt.Errorf("failed to write GeoJSON: %w", err)
		}
		r.writePlain("✓ GeoJSON written: %s\n", geoPath)
	}

	if csv {
		csvPath := filepath.Join(outDir, "artists.csv")
		if err := formatter.WriteArtistCSV(coords, csvPath); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		r.writePlain("✓ CSV written: %s\n", csvPath)
	}

	return nil
}
