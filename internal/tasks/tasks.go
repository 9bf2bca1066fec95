// package tasks implements the enrichment pipeline: library building,
// artist location resolution, and geocoding.
//
// The core abstraction is EnrichEngine, which orchestrates the
// build → resolve → geocode stages. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/shared"
)

// TrackProducer supplies the flat saved-track list the builder
// consumes. Implemented by services.SpotifyService.
type TrackProducer interface {
	FetchSavedTracks(ctx context.Context) ([]models.SavedTrackItem, error)
}

// RunResult contains all data from a full pipeline run.
type RunResult struct {
	RunID        string                // Unique identifier for this run
	Library      models.Library        // Enriched library
	Coordinates  *models.CoordinateMap // Final coordinate → artists grouping
	ResolveStats *ResolveStats         // Location resolution outcomes
	GeocodeStats *GeocodeStats         // Geocoding outcomes
	TrackCount   int                   // Raw tracks consumed
}

// EnrichEngine orchestrates the enrichment pipeline stages.
type EnrichEngine struct {
	producer TrackProducer
	resolver *Resolver
	geocode  *GeocodePass
	logger   *log.Logger
}

// NewEnrichEngine creates an EnrichEngine. The producer may be nil when
// the caller always starts from a persisted library.
func NewEnrichEngine(producer TrackProducer, resolver *Resolver, geocode *GeocodePass, logger *log.Logger) *EnrichEngine {
	return &EnrichEngine{
		producer: producer,
		resolver: resolver,
		geocode:  geocode,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// BuildFromProducer fetches the saved-track list and builds the library.
func (e *EnrichEngine) BuildFromProducer(ctx context.Context, progress chan<- ProgressUpdate) (models.Library, int, error) {
	if e.producer == nil {
		return nil, 0, fmt.Errorf("%w: track producer not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchTracksUpdate(0, 0))
	items, err := e.producer.FetchSavedTracks(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to fetch saved tracks: %v", shared.ErrAPIRequest, err)
	}
	sendProgress(progress, fetchTracksUpdate(len(items), len(items)))

	return BuildLibrary(items, progress), len(items), nil
}

// EnrichLocations resolves origins for the library's artists.
func (e *EnrichEngine) EnrichLocations(ctx context.Context, library models.Library, progress chan<- ProgressUpdate) (*ResolveStats, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	return e.resolver.EnrichLocations(ctx, library, progress), nil
}

// GeocodeLibrary converts resolved origins into the coordinate map.
func (e *EnrichEngine) GeocodeLibrary(ctx context.Context, library models.Library, progress chan<- ProgressUpdate) (*models.CoordinateMap, *GeocodeStats, error) {
	if e.geocode == nil {
		return nil, nil, fmt.Errorf("%w: geocoder not initialized", shared.ErrServiceUnavailable)
	}
	coords, stats := e.geocode.Resolve(ctx, library, progress)
	return coords, stats, nil
}

// Run performs the full pipeline: fetch and build (or reuse the given
// library), resolve origins, then geocode.
//
// A run always completes and reports stats regardless of how many
// individual lookups failed; only file-level and producer faults
// surface as errors.
func (e *EnrichEngine) Run(ctx context.Context, library models.Library, progress chan<- ProgressUpdate) (*RunResult, error) {
	result := &RunResult{RunID: shared.GenerateID()}

	if library == nil {
		built, count, err := e.BuildFromProducer(ctx, progress)
		if err != nil {
			return nil, err
		}
		library = built
		result.TrackCount = count
	}
	result.Library = library

	resolveStats, err := e.EnrichLocations(ctx, library, progress)
	if err != nil {
		return nil, err
	}
	result.ResolveStats = resolveStats

	coords, geocodeStats, err := e.GeocodeLibrary(ctx, library, progress)
	if err != nil {
		return nil, err
	}
	result.Coordinates = coords
	result.GeocodeStats = geocodeStats

	if e.logger != nil {
		e.logger.Infof("run %s complete: %d artists, %d coordinates", result.RunID, len(library), coords.Len())
	}
	return result, nil
}
