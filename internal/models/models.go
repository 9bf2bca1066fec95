package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/geolist/internal/shared"
)

// Origin status values. Every resolved artist ends up with exactly one.
const (
	StatusSuccess        = "success"
	StatusNotFound       = "not_found"
	StatusNoLocationData = "no_location_data"
	StatusError          = "error"
)

// Track is a single library track. Immutable once built.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Popularity  int    `json:"popularity"`
	ReleaseYear string `json:"release_year"`
}

// Origin is the resolved home-location descriptor for an artist.
// Immutable once attached to an ArtistRecord or written to a cache.
type Origin struct {
	Status  string `json:"status"`
	City    string `json:"city,omitempty"`
	Area    string `json:"area,omitempty"`
	Country string `json:"country,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HasLocation reports whether any of the three location fields is set.
func (o Origin) HasLocation() bool {
	return o.City != "" || o.Area != "" || o.Country != ""
}

// LocationString joins the non-empty location fields, most specific
// first, separated by ", ". Used as the geocode cache key.
func (o Origin) LocationString() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{o.City, o.Area, o.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	s := parts[0]
	for _, p := range parts[1:] {
		s += ", " + p
	}
	return s
}

// ArtistRecord groups an artist's tracks with its identifiers and,
// once resolved, its origin. The artist name is the Library map key.
type ArtistRecord struct {
	ArtistID  string           `json:"artist_id"`
	ArtistURI string           `json:"artist_uri"`
	Songs     map[string]Track `json:"songs"`
	Origin    *Origin          `json:"origin,omitempty"`
}

// Library maps artist name to its record. Built once per run by the
// library builder, mutated in place by the location resolver, read
// only by the geocoder.
type Library map[string]*ArtistRecord

// Save writes the library as an indented UTF-8 JSON document with
// non-ASCII characters left unescaped.
func (l Library) Save(path string) error {
	data, err := shared.MarshalJSON(l, true)
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	return nil
}

// LoadLibrary reads a library document saved by [Library.Save].
//
// A missing file and a malformed file are distinct failures so the
// caller can fall back to fresh retrieval or abort.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrLibraryNotFound, path)
		}
		return nil, fmt.Errorf("failed to read library %s: %w", path, err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrLibraryCorrupt, path, err)
	}
	return lib, nil
}

// Coordinate is a latitude/longitude pair at the geocoder's native
// precision. Comparable, so it doubles as the grouping key for the
// final artist map: only provider-exact matches dedupe.
type Coordinate struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the coordinate as a 2-element [lat, lng] array,
// the cache file format.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes the 2-element array form.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid coordinate: %w", err)
	}
	c.Lat = pair[0]
	c.Lng = pair[1]
	return nil
}

// CoordinateGroup is one entry of the final map: a coordinate and the
// artists that resolved to it, in processing order.
type CoordinateGroup struct {
	Coordinate Coordinate
	Artists    []string
}

// CoordinateMap groups artists by exact coordinate while preserving
// first-seen coordinate order and per-coordinate insertion order, so
// downstream marker-offset assignment is reproducible across runs.
type CoordinateMap struct {
	order  []Coordinate
	groups map[Coordinate][]string
}

// NewCoordinateMap creates an empty CoordinateMap.
func NewCoordinateMap() *CoordinateMap {
	return &CoordinateMap{groups: make(map[Coordinate][]string)}
}

// Add appends artist to the group for coord, creating the group on
// first sight.
func (m *CoordinateMap) Add(coord Coordinate, artist string) {
	if _, ok := m.groups[coord]; !ok {
		m.order = append(m.order, coord)
	}
	m.groups[coord] = append(m.groups[coord], artist)
}

// Artists returns the artists grouped under coord, in insertion order.
func (m *CoordinateMap) Artists(coord Coordinate) []string {
	return m.groups[coord]
}

// Len returns the number of distinct coordinates.
func (m *CoordinateMap) Len() int {
	return len(m.order)
}

// Groups returns all groups in first-seen coordinate order.
func (m *CoordinateMap) Groups() []CoordinateGroup {
	out := make([]CoordinateGroup, 0, len(m.order))
	for _, coord := range m.order {
		out = append(out, CoordinateGroup{Coordinate: coord, Artists: m.groups[coord]})
	}
	return out
}
