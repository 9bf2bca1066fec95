package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/geolist/internal/cache"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/services"
	"golang.org/x/time/rate"
)

// Resolver attaches origin descriptors to a library's artists by
// querying an external directory service through a write-through
// cache, a per-worker rate limit, and a transient-fault retry policy.
type Resolver struct {
	directory services.Directory
	cache     cache.Store[models.Origin]
	logger    *log.Logger
	workers   int
	interval  time.Duration
	retry     RetryPolicy
}

// ResolverOpts contains configuration for creating a Resolver.
type ResolverOpts struct {
	Directory services.Directory
	Cache     cache.Store[models.Origin]
	Logger    *log.Logger
	Workers   int           // Concurrent workers (default: 8)
	Interval  time.Duration // Minimum delay before each external query (default: 1s)
	Retry     *RetryPolicy  // Defaults to 3 transient-only attempts
}

// NewResolver creates a Resolver with the provided options.
func NewResolver(opts ResolverOpts) *Resolver {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore[models.Origin]()
	}

	retry := DefaultRetryPolicy(services.IsTransient)
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &Resolver{
		directory: opts.Directory,
		cache:     opts.Cache,
		logger:    opts.Logger,
		workers:   opts.Workers,
		interval:  opts.Interval,
		retry:     retry,
	}
}

// artistOutcome is one worker's result, merged by the collector.
type artistOutcome struct {
	name   string
	origin models.Origin
}

// EnrichLocations resolves an origin for every unresolved artist and
// attaches it to the library in place.
//
// Artists are fanned out to a fixed-size worker pool; the library map
// is only written by the collecting goroutine, and all outcomes are
// collected before stats are finalized. A per-item failure becomes an
// error-status origin and never aborts the batch.
func (r *Resolver) EnrichLocations(ctx context.Context, library models.Library, progress chan<- ProgressUpdate) *ResolveStats {
	stats := NewResolveStats()

	pending := make([]string, 0, len(library))
	for name, record := range library {
		if record.Origin == nil {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	stats.setTotal(len(pending))

	if len(pending) == 0 {
		return stats
	}

	jobs := make(chan string, len(pending))
	outcomes := make(chan artistOutcome, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go r.resolveWorker(ctx, &wg, jobs, outcomes, stats)
	}

	go func() {
		defer close(jobs)
		for _, name := range pending {
			select {
			case <-ctx.Done():
				return
			case jobs <- name:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	done := 0
	for outcome := range outcomes {
		done++
		origin := outcome.origin
		library[outcome.name].Origin = &origin
		sendProgress(progress, resolveUpdate(done, len(pending), outcome.name))
	}

	return stats
}

// resolveWorker processes artists from the jobs channel. Each worker
// carries its own rate limiter: the minimum delay applies per worker,
// not globally, so the effective external rate is workers ÷ interval.
func (r *Resolver) resolveWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan string, outcomes chan<- artistOutcome, stats *ResolveStats) {
	defer wg.Done()

	limiter := rate.NewLimiter(rate.Every(r.interval), 1)

	for name := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		origin := r.resolveArtist(ctx, limiter, name, stats)
		outcomes <- artistOutcome{name: name, origin: origin}
	}
}

// resolveArtist determines one artist's origin: cache first, then a
// rate-limited, retried directory query. Terminal descriptors
// (success, not_found, no_location_data) are cached write-through;
// error descriptors are not, so the next run retries them.
func (r *Resolver) resolveArtist(ctx context.Context, limiter *rate.Limiter, name string, stats *ResolveStats) models.Origin {
	if cached, ok := r.cache.Get(name); ok {
		stats.recordCacheHit()
		stats.recordOutcome(cached.Status, cached.City, cached.Area, cached.Country)
		return cached
	}

	var match *services.ArtistMatch
	err := r.retry.Do(ctx, func() error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var queryErr error
		match, queryErr = r.directory.SearchArtist(ctx, name)
		return queryErr
	})

	if err != nil {
		if r.logger != nil {
			r.logger.Warnf("failed to resolve %q: %v", name, err)
		}
		origin := models.Origin{Status: models.StatusError, Error: err.Error()}
		stats.recordOutcome(origin.Status, "", "", "")
		stats.recordErrorMessage(err.Error())
		return origin
	}

	if match == nil {
		origin := models.Origin{Status: models.StatusNotFound}
		r.putCached(name, origin)
		stats.recordOutcome(origin.Status, "", "", "")
		return origin
	}

	origin := models.Origin{
		Status:  models.StatusSuccess,
		City:    match.BeginArea,
		Area:    match.Area,
		Country: match.Country,
	}
	if !origin.HasLocation() {
		origin.Status = models.StatusNoLocationData
	}

	r.putCached(name, origin)
	stats.recordOutcome(origin.Status, origin.City, origin.Area, origin.Country)
	return origin
}

func (r *Resolver) putCached(name string, origin models.Origin) {
	if err := r.cache.Put(name, origin); err != nil && r.logger != nil {
		r.logger.Warnf("failed to cache origin for %q: %v", name, err)
	}
}
