// Spotify saved-tracks producer
//
// Supplies the flat track list the library builder consumes. Uses
// [oauth2] for authentication and fans page fetches out with errgroup.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	savedTracksPageSize = 50
	savedTracksFetchers = 8
)

// SpotifyService fetches the authenticated user's saved tracks.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a Spotify client with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-library-read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig returns the service's OAuth2 config for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Authenticate installs a token. Expects either an "access_token" or an
// "auth_code" (exchanged here) in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.UseToken(ctx, &oauth2.Token{AccessToken: accessToken})
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
		}
		s.UseToken(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: access_token or auth_code", shared.ErrMissingCredentials)
}

// UseToken installs an already-obtained token, e.g. from the callback server.
func (s *SpotifyService) UseToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
}

// doRequest performs an authenticated GET against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return markTransient(fmt.Errorf("spotify returned status %d", resp.StatusCode))
	default:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit, offset int) (*models.SavedTracksPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > savedTracksPageSize {
		limit = savedTracksPageSize
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var page models.SavedTracksPage
	if err := s.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchSavedTracks retrieves the user's entire saved-track library.
//
// A first single-item request discovers the total, then page fetches
// fan out across a bounded errgroup. Results are reassembled in offset
// order so the flat list is deterministic.
func (s *SpotifyService) FetchSavedTracks(ctx context.Context) ([]models.SavedTrackItem, error) {
	first, err := s.SavedTracks(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch library size: %w", err)
	}
	if first.Total == 0 {
		return nil, nil
	}

	type pageResult struct {
		offset int
		items  []models.SavedTrackItem
	}

	var mu sync.Mutex
	pages := make([]pageResult, 0, first.Total/savedTracksPageSize+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(savedTracksFetchers)

	for offset := 0; offset < first.Total; offset += savedTracksPageSize {
		g.Go(func() error {
			page, err := s.SavedTracks(ctx, savedTracksPageSize, offset)
			if err != nil {
				return fmt.Errorf("failed to fetch tracks at offset %d: %w", offset, err)
			}
			mu.Lock()
			pages = append(pages, pageResult{offset: offset, items: page.Items})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].offset < pages[j].offset })

	items := make([]models.SavedTrackItem, 0, first.Total)
	for _, p := range pages {
		items = append(items, p.items...)
	}
	return items, nil
}
