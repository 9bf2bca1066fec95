// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for configuration and caches.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize cache storage",
		Flags: []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// libraryCommand handles library build and inspection operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Build and inspect the saved-track library",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Fetch saved tracks from Spotify and group them by artist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to library.path from config)",
					},
				},
				Action: r.LibraryBuild,
			},
			{
				Name:  "show",
				Usage: "Print the persisted library",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of artists to print",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryShow,
			},
		},
	}
}

// enrichCommand resolves artist origins through the directory service
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Resolve artist origin locations via MusicBrainz",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "library",
				Usage: "Library file to enrich (defaults to library.path from config)",
			},
		},
		Action: r.Enrich,
	}
}

// geocodeCommand converts resolved origins into coordinates
func geocodeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "geocode",
		Usage: "Geocode resolved origins and write the coordinate map",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "library",
				Usage: "Library file to geocode (defaults to library.path from config)",
			},
			&cli.BoolFlag{
				Name:  "geojson",
				Usage: "Also write a GeoJSON FeatureCollection",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Also write a per-artist CSV",
			},
		},
		Action: r.Geocode,
	}
}

// runCommand executes the full pipeline
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full pipeline: fetch, enrich, geocode, write artifacts",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "library",
				Usage: "Start from an existing library file instead of fetching",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Run interactively in the terminal UI",
			},
		},
		Action: r.Run,
	}
}

// cacheCommand inspects and clears lookup caches
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage lookup caches",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry counts",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStats,
			},
			{
				Name:  "clear",
				Usage: "Delete all cached lookups",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Skip confirmation",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}
