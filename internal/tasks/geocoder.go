package tasks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/geolist/internal/cache"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/services"
	"golang.org/x/time/rate"
)

// GeocodePass converts resolved origins into coordinates and groups
// artists by exact coordinate pair.
//
// Unlike the resolver it is a serial pass: the geocoding service
// tolerates one request per second total, so there is nothing to
// amortize with workers.
type GeocodePass struct {
	geocoder services.Geocoder
	cache    cache.Store[models.Coordinate]
	logger   *log.Logger
	interval time.Duration
	retry    RetryPolicy
}

// GeocodePassOpts contains configuration for creating a GeocodePass.
type GeocodePassOpts struct {
	Geocoder services.Geocoder
	Cache    cache.Store[models.Coordinate]
	Logger   *log.Logger
	Interval time.Duration // Minimum delay before each external query (default: 1s)
	Retry    *RetryPolicy  // Defaults to 3 transient-only attempts
}

// NewGeocodePass creates a GeocodePass with the provided options.
func NewGeocodePass(opts GeocodePassOpts) *GeocodePass {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore[models.Coordinate]()
	}

	retry := DefaultRetryPolicy(services.IsTransient)
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &GeocodePass{
		geocoder: opts.Geocoder,
		cache:    opts.Cache,
		logger:   opts.Logger,
		interval: opts.Interval,
		retry:    retry,
	}
}

// Resolve geocodes every successfully-located artist and returns the
// coordinate → artists grouping.
//
// Artists are processed in sorted-name order so that per-coordinate
// list order, which downstream marker placement depends on, is
// reproducible across runs given identical cache state. Only artists
// with a success-status origin participate; geocoding failures are
// contained per item and never abort the pass.
func (g *GeocodePass) Resolve(ctx context.Context, library models.Library, progress chan<- ProgressUpdate) (*models.CoordinateMap, *GeocodeStats) {
	stats := NewGeocodeStats()
	stats.setTotal(len(library))

	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)

	limiter := rate.NewLimiter(rate.Every(g.interval), 1)
	coords := models.NewCoordinateMap()

	for i, name := range names {
		sendProgress(progress, geocodeUpdate(i+1, len(names), name))

		if err := ctx.Err(); err != nil {
			break
		}

		record := library[name]
		if record.Origin == nil || record.Origin.Status != models.StatusSuccess {
			continue
		}

		location := record.Origin.LocationString()
		if location == "" {
			stats.recordEmpty()
			continue
		}

		if coord, ok := g.geocodeLocation(ctx, limiter, location, stats); ok {
			coords.Add(coord, name)
		}
	}

	return coords, stats
}

// geocodeLocation resolves one joined location string: cache, then the
// full query, then a single degraded query with the last comma part
// dropped. A successful coordinate is cached write-through under the
// ORIGINAL string, so the degraded form never becomes a cache key.
func (g *GeocodePass) geocodeLocation(ctx context.Context, limiter *rate.Limiter, location string, stats *GeocodeStats) (models.Coordinate, bool) {
	if coord, ok := g.cache.Get(location); ok {
		stats.recordCacheHit()
		return coord, true
	}

	place, err := g.query(ctx, limiter, location)
	if err != nil {
		g.recordFailure(location, err, stats)
		return models.Coordinate{}, false
	}

	degraded := false
	if place == nil {
		shorter, ok := dropLastPart(location)
		if !ok {
			stats.recordFailure("")
			return models.Coordinate{}, false
		}

		place, err = g.query(ctx, limiter, shorter)
		if err != nil {
			g.recordFailure(shorter, err, stats)
			return models.Coordinate{}, false
		}
		if place == nil {
			stats.recordFailure("")
			return models.Coordinate{}, false
		}
		degraded = true
	}

	coord := models.Coordinate{Lat: place.Lat, Lng: place.Lng}
	if err := g.cache.Put(location, coord); err != nil && g.logger != nil {
		g.logger.Warnf("failed to cache coordinates for %q: %v", location, err)
	}
	stats.recordSuccess(degraded)
	return coord, true
}

// query runs one rate-limited geocode attempt, retrying transient
// faults with backoff before giving up.
func (g *GeocodePass) query(ctx context.Context, limiter *rate.Limiter, location string) (*services.Place, error) {
	var place *services.Place
	err := g.retry.Do(ctx, func() error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var queryErr error
		place, queryErr = g.geocoder.Geocode(ctx, location)
		return queryErr
	})
	return place, err
}

func (g *GeocodePass) recordFailure(location string, err error, stats *GeocodeStats) {
	if g.logger != nil {
		g.logger.Warnf("failed to geocode %q: %v", location, err)
	}
	stats.recordFailure(err.Error())
}

// dropLastPart removes the last comma-separated part of a location
// string. False when there is nothing left to drop.
func dropLastPart(location string) (string, bool) {
	idx := strings.LastIndex(location, ",")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(location[:idx]), true
}
