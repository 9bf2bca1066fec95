// MusicBrainz implementation of [Directory]
//
// Response types based on https://musicbrainz.org/doc/MusicBrainz_API/Search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultMBBaseURL   = "https://musicbrainz.org/ws/2"
	defaultMBUserAgent = "geolist/0.3 (https://github.com/desertthunder/geolist)"
)

type mbArea struct {
	Name string `json:"name"`
}

type mbArtist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Score     int     `json:"score"`
	Country   string  `json:"country"`
	Area      *mbArea `json:"area"`
	BeginArea *mbArea `json:"begin-area"`
}

type mbSearchResponse struct {
	Artists []mbArtist `json:"artists"`
}

// MusicBrainzService implements [Directory] against the MusicBrainz
// Web API. The API enforces roughly one request per second per client;
// the resolver's rate limiter is responsible for staying under it.
type MusicBrainzService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewMusicBrainzService creates a MusicBrainz client. Empty arguments
// fall back to the public endpoint and the default User-Agent, which
// MusicBrainz requires to be meaningful.
func NewMusicBrainzService(baseURL, userAgent string, client *http.Client) *MusicBrainzService {
	if baseURL == "" {
		baseURL = defaultMBBaseURL
	}
	if userAgent == "" {
		userAgent = defaultMBUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MusicBrainzService{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: client,
	}
}

func (s *MusicBrainzService) Name() string {
	return "MusicBrainz"
}

// SearchArtist queries the artist search endpoint for the single best
// match. 429 and 5xx responses are tagged transient so the caller's
// retry policy picks them up; an empty artist list is (nil, nil).
func (s *MusicBrainzService) SearchArtist(ctx context.Context, name string) (*ArtistMatch, error) {
	query := fmt.Sprintf("artist:%q", name)
	endpoint := fmt.Sprintf("%s/artist?query=%s&fmt=json&limit=1", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, markTransient(fmt.Errorf("musicbrainz request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, markTransient(fmt.Errorf("musicbrainz returned status %d", resp.StatusCode))
	default:
		return nil, fmt.Errorf("musicbrainz returned status %d", resp.StatusCode)
	}

	var search mbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}

	if len(search.Artists) == 0 {
		return nil, nil
	}

	artist := search.Artists[0]
	match := &ArtistMatch{
		ID:      artist.ID,
		Name:    artist.Name,
		Country: strings.TrimSpace(artist.Country),
		Score:   artist.Score,
	}
	if artist.Area != nil {
		match.Area = strings.TrimSpace(artist.Area.Name)
	}
	if artist.BeginArea != nil {
		match.BeginArea = strings.TrimSpace(artist.BeginArea.Name)
	}
	return match, nil
}
