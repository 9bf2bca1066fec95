package formatter

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/tasks"
	testutils "github.com/desertthunder/geolist/internal/testing"
)

func sampleCoordinates() *models.CoordinateMap {
	coords := models.NewCoordinateMap()
	coords.Add(models.Coordinate{Lat: 60.39, Lng: 5.32}, "Kings of Convenience")
	coords.Add(models.Coordinate{Lat: 60.39, Lng: 5.32}, "Röyksopp")
	coords.Add(models.Coordinate{Lat: 59.91, Lng: 10.75}, "Jaga Jazzist")
	return coords
}

func TestRenderStats(t *testing.T) {
	t.Run("resolve table shows counts and percentages", func(t *testing.T) {
		stats := tasks.NewResolveStats()
		stats.Total = 10
		stats.Success = 7
		stats.NotFound = 1
		stats.NoLocationData = 1
		stats.Failed = 1

		out := RenderResolveStats(stats)

		for _, want := range []string{"Location Enrichment", "Total artists", "10", "7 (70.0%)"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected table to contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("zero totals render dashes, not NaN", func(t *testing.T) {
		out := RenderResolveStats(tasks.NewResolveStats())
		if strings.Contains(out, "NaN") {
			t.Errorf("table contains NaN:\n%s", out)
		}
		if !strings.Contains(out, "-") {
			t.Errorf("expected dash placeholders:\n%s", out)
		}
	})

	t.Run("geocode table shows every counter", func(t *testing.T) {
		out := RenderGeocodeStats(tasks.NewGeocodeStats())
		for _, want := range []string{"Geocoding", "Successful geocodes", "Successful retry geocodes", "From cache", "Empty locations"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected table to contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("error list renders frequencies and empties to nothing", func(t *testing.T) {
		out := RenderTopErrors([]tasks.ErrorCount{
			{Message: "connection reset", Count: 3},
			{Message: "bad gateway", Count: 1},
		})
		if !strings.Contains(out, "connection reset: 3 times") {
			t.Errorf("expected frequency line, got:\n%s", out)
		}

		if got := RenderTopErrors(nil); got != "" {
			t.Errorf("expected empty string for no errors, got %q", got)
		}
	})
}

func TestWriteCoordinateMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artist_map.json")
	if err := WriteCoordinateMap(sampleCoordinates(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []struct {
		Coordinates models.Coordinate `json:"coordinates"`
		Artists     []string          `json:"artists"`
	}
	if err := json.Unmarshal([]byte(testutils.MustReadFile(t, path)), &docs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(docs))
	}
	if docs[0].Coordinates != (models.Coordinate{Lat: 60.39, Lng: 5.32}) {
		t.Errorf("first group out of first-seen order: %+v", docs[0].Coordinates)
	}
	if !reflect.DeepEqual(docs[0].Artists, []string{"Kings of Convenience", "Röyksopp"}) {
		t.Errorf("unexpected artist list: %v", docs[0].Artists)
	}

	// Coordinates serialize as a [lat, lng] pair, not an object.
	if strings.Contains(testutils.MustReadFile(t, path), "\"Lat\"") {
		t.Error("expected array-form coordinates, found object fields")
	}
}

func TestWriteGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artist_map.geojson")
	if err := WriteGeoJSON(sampleCoordinates(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				Artists []string `json:"artists"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal([]byte(testutils.MustReadFile(t, path)), &collection); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if collection.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", collection.Type)
	}
	if len(collection.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(collection.Features))
	}

	first := collection.Features[0]
	if first.Geometry.Type != "Point" {
		t.Errorf("geometry type = %q, want Point", first.Geometry.Type)
	}
	// GeoJSON positions are [lng, lat].
	if first.Geometry.Coordinates != [2]float64{5.32, 60.39} {
		t.Errorf("position = %v, want [5.32 60.39]", first.Geometry.Coordinates)
	}
	if len(first.Properties.Artists) != 2 {
		t.Errorf("expected 2 artists on first feature, got %v", first.Properties.Artists)
	}
}

func TestWriteArtistCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artists.csv")
	if err := WriteArtistCSV(sampleCoordinates(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(testutils.MustReadFile(t, path)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Artist,Latitude,Longitude" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "Kings of Convenience,60.39,5.32" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if lines[3] != "Jaga Jazzist,59.91,10.75" {
		t.Errorf("unexpected last row %q", lines[3])
	}
}
