package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/geolist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template and
// initializes cache storage for the configured backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		if config, err := shared.LoadConfig(configPath); err == nil {
			r.config = config
		}
	} else {
		r.logger.Info("creating config file from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
	}

	for _, dir := range []string{
		r.config.Cache.Dir,
		filepath.Dir(r.config.Library.Path),
		r.config.Output.Dir,
	} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := r.openStores(); err != nil {
		return err
	}

	r.logger.Info("setup complete", "backend", r.config.Cache.Backend)

	r.writePlain("✓ Configuration ready: %s\n", configPath)
	r.writePlain("✓ Cache backend: %s\n", r.config.Cache.Backend)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify credentials to %s\n", configPath)
	r.writePlain("2. Run 'geolist auth' to authorize\n")
	r.writePlain("3. Run 'geolist run' to map your library\n")

	return nil
}
