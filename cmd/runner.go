package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/geolist/internal/cache"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/services"
	"github.com/desertthunder/geolist/internal/shared"
	"github.com/desertthunder/geolist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    *services.SpotifyService
	directory  services.Directory
	geocoder   services.Geocoder
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db          *sql.DB
	originStore cache.Store[models.Origin]
	coordStore  cache.Store[models.Coordinate]
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    *services.SpotifyService
	Directory  services.Directory
	Geocoder   services.Geocoder
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		directory:  opts.Directory,
		geocoder:   opts.Geocoder,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, libraryCommand, enrichCommand, geocodeCommand, runCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStores initializes the origin and coordinate caches per the
// configured backend. Idempotent; later calls reuse the first stores.
func (r *Runner) openStores() error {
	if r.originStore != nil && r.coordStore != nil {
		return nil
	}

	switch r.config.Cache.Backend {
	case "sqlite":
		db, err := shared.NewDatabase(r.config.Cache.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open cache database: %w", err)
		}
		// One writer connection keeps the resolver's workers serialized
		// at the pool instead of colliding on SQLITE_BUSY.
		shared.ConfigureDatabase(db, 1, 1)
		r.db = db

		origins, err := cache.NewSQLiteStore[models.Origin](db, "origins", r.logger)
		if err != nil {
			return fmt.Errorf("failed to open origin cache: %w", err)
		}
		coords, err := cache.NewSQLiteStore[models.Coordinate](db, "geocodes", r.logger)
		if err != nil {
			return fmt.Errorf("failed to open geocode cache: %w", err)
		}
		r.originStore = origins
		r.coordStore = coords
	default:
		dir := r.config.Cache.Dir
		if dir == "" {
			dir = "data/cache"
		}
		r.originStore = cache.NewFileStore[models.Origin](filepath.Join(dir, "mb_cache.json"), r.logger)
		r.coordStore = cache.NewFileStore[models.Coordinate](filepath.Join(dir, "geocode_cache.json"), r.logger)
	}

	return nil
}

// Close releases the cache database handle when one is open.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

// engine assembles the enrichment pipeline from the runner's services
// and the configured caches.
func (r *Runner) engine() (*tasks.EnrichEngine, error) {
	if err := r.openStores(); err != nil {
		return nil, err
	}

	resolver := tasks.NewResolver(tasks.ResolverOpts{
		Directory: r.directory,
		Cache:     r.originStore,
		Logger:    r.logger,
		Workers:   r.config.Enrichment.Workers,
		Interval:  r.config.Enrichment.RateLimit(),
	})

	geocode := tasks.NewGeocodePass(tasks.GeocodePassOpts{
		Geocoder: r.geocoder,
		Cache:    r.coordStore,
		Logger:   r.logger,
		Interval: r.config.Enrichment.RateLimit(),
	})

	var producer tasks.TrackProducer
	if r.spotify != nil {
		producer = r.spotify
	}

	return tasks.NewEnrichEngine(producer, resolver, geocode, r.logger), nil
}

// loadLibrary reads the persisted library from the configured path,
// unless an explicit override is given.
func (r *Runner) loadLibrary(override string) (models.Library, error) {
	path := r.config.Library.Path
	if override != "" {
		path = override
	}
	return models.LoadLibrary(path)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
