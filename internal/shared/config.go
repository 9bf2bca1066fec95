package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Directory   DirectoryConfig   `toml:"directory"`
	Geocoder    GeocoderConfig    `toml:"geocoder"`
	Enrichment  EnrichmentConfig  `toml:"enrichment"`
	Cache       CacheConfig       `toml:"cache"`
	Library     LibraryConfig     `toml:"library"`
	Output      OutputConfig      `toml:"output"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials for the track producer.
//
// Token fields are written back after a successful OAuth flow so
// subsequent commands can run without reauthorizing.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token,omitempty"`
	RefreshToken string `toml:"refresh_token,omitempty"`
	TokenExpiry  string `toml:"token_expiry,omitempty"`
}

// Map converts the credentials into the map form the service constructor accepts.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Update stores an OAuth token's fields back into the config.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}
	s.AccessToken = token.AccessToken
	s.RefreshToken = token.RefreshToken
	s.TokenExpiry = token.Expiry.Format(time.RFC3339)
	return nil
}

// Token reconstructs the stored OAuth token, or nil when none is saved.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" {
		return nil
	}
	token := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if expiry, err := time.Parse(time.RFC3339, s.TokenExpiry); err == nil {
		token.Expiry = expiry
	}
	return token
}

// ServerConfig configures the local OAuth callback server.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	CallbackPath string `toml:"callback_path"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DirectoryConfig contains settings for the artist directory service.
type DirectoryConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// GeocoderConfig contains settings for the geocoding service.
type GeocoderConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// EnrichmentConfig contains tuning knobs for the enrichment pipeline.
//
// Workers × rate limit must stay under the external services'
// tolerance; these are tunables, not derived invariants.
type EnrichmentConfig struct {
	Workers          int `toml:"workers"`
	RateLimitSeconds int `toml:"rate_limit_seconds"`
	MaxAttempts      int `toml:"max_attempts"`
}

// RateLimit returns the minimum delay between external calls per worker.
func (e EnrichmentConfig) RateLimit() time.Duration {
	if e.RateLimitSeconds <= 0 {
		return time.Second
	}
	return time.Duration(e.RateLimitSeconds) * time.Second
}

// CacheConfig selects and locates the cache backend.
type CacheConfig struct {
	Backend      string `toml:"backend"`
	Dir          string `toml:"dir"`
	DatabasePath string `toml:"database_path"`
}

// LibraryConfig locates the persisted library document.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// OutputConfig locates run artifacts (coordinate maps, reports).
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration back to disk as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
