package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/geolist/internal/services"
	"github.com/desertthunder/geolist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				svc.UseToken(context.Background(), token)
			}
			spotifyService = svc
		}
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	directory := services.NewMusicBrainzService(config.Directory.BaseURL, config.Directory.UserAgent, httpClient)
	geocoder := services.NewNominatimService(config.Geocoder.BaseURL, config.Geocoder.UserAgent, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Spotify:   spotifyService,
		Directory: directory,
		Geocoder:  geocoder,
		Logger:    logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "geolist",
		Usage:    "Map the geographic origins of your music library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
