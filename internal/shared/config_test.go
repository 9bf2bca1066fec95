package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Directory.BaseURL != "https://musicbrainz.org/ws/2" {
			t.Errorf("expected MusicBrainz base URL, got %s", config.Directory.BaseURL)
		}

		if config.Geocoder.BaseURL != "https://nominatim.openstreetmap.org" {
			t.Errorf("expected Nominatim base URL, got %s", config.Geocoder.BaseURL)
		}

		if config.Enrichment.Workers != 8 {
			t.Errorf("expected 8 workers, got %d", config.Enrichment.Workers)
		}

		if config.Enrichment.RateLimit() != time.Second {
			t.Errorf("expected 1s rate limit, got %v", config.Enrichment.RateLimit())
		}

		if config.Cache.Backend != "file" {
			t.Errorf("expected file cache backend, got %s", config.Cache.Backend)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Library.Path != defaultConfig.Library.Path {
			t.Errorf("created config library path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[directory]
base_url = "http://localhost:5000"
user_agent = "test-agent/1.0"

[enrichment]
workers = 4
rate_limit_seconds = 2
max_attempts = 5

[cache]
backend = "sqlite"
database_path = "/custom/cache.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Directory.BaseURL != "http://localhost:5000" {
			t.Errorf("expected directory base URL http://localhost:5000, got %s", config.Directory.BaseURL)
		}

		if config.Enrichment.RateLimit() != 2*time.Second {
			t.Errorf("expected 2s rate limit, got %v", config.Enrichment.RateLimit())
		}
	})

	t.Run("LoadConfigMissing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfigInvalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_client"
		config.Enrichment.Workers = 2

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved_client" {
			t.Errorf("expected saved client_id, got %s", loaded.Credentials.Spotify.ClientID)
		}
		if loaded.Enrichment.Workers != 2 {
			t.Errorf("expected 2 workers, got %d", loaded.Enrichment.Workers)
		}
	})
}

func TestSpotifyConfigToken(t *testing.T) {
	t.Run("Update and Token round-trip", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}

		var cfg SpotifyConfig
		if err := cfg.Update(token); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got := cfg.Token()
		if got == nil {
			t.Fatal("expected token, got nil")
		}
		if got.AccessToken != "access" || got.RefreshToken != "refresh" {
			t.Errorf("token fields not preserved: %+v", got)
		}
		if !got.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, got.Expiry)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		var cfg SpotifyConfig
		if err := cfg.Update(nil); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if err := cfg.Update(&oauth2.Token{}); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Token returns nil when unset", func(t *testing.T) {
		var cfg SpotifyConfig
		if cfg.Token() != nil {
			t.Error("expected nil token for empty config")
		}
	})
}
