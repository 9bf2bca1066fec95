// Nominatim implementation of [Geocoder]
//
// Response types based on https://nominatim.org/release-docs/latest/api/Search/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultNomBaseURL   = "https://nominatim.openstreetmap.org"
	defaultNomUserAgent = "geolist/0.3 (https://github.com/desertthunder/geolist)"
)

// nominatimPlace is one search result. Coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimService implements [Geocoder] against the Nominatim search
// API. The public instance tolerates at most one request per second;
// the geocode pass's rate limiter is responsible for staying under it.
type NominatimService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimService creates a Nominatim client. Empty arguments fall
// back to the public OSM endpoint and the default User-Agent.
func NewNominatimService(baseURL, userAgent string, client *http.Client) *NominatimService {
	if baseURL == "" {
		baseURL = defaultNomBaseURL
	}
	if userAgent == "" {
		userAgent = defaultNomUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &NominatimService{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: client,
	}
}

func (s *NominatimService) Name() string {
	return "Nominatim"
}

// Geocode queries the search endpoint for the single best match.
// Coordinates are returned at the provider's native precision, with no
// additional rounding. An empty result list is (nil, nil).
func (s *NominatimService) Geocode(ctx context.Context, query string) (*Place, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=jsonv2&limit=1", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, markTransient(fmt.Errorf("nominatim request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, markTransient(fmt.Errorf("nominatim returned status %d", resp.StatusCode))
	default:
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}

	return &Place{Lat: lat, Lng: lng, DisplayName: places[0].DisplayName}, nil
}
