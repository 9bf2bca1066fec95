// package formatter renders run reports and exports the coordinate map
// to the formats downstream map renderers consume (JSON, GeoJSON, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/shared"
	"github.com/desertthunder/geolist/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders a two-column label/value table in the style used
// for all run reports.
func renderTable(title string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	return tw.Render()
}

// percent formats n as a percentage of total, "-" when total is zero.
func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d (%.1f%%)", n, float64(n)/float64(total)*100)
}

// RenderResolveStats renders the location-resolution summary table.
func RenderResolveStats(stats *tasks.ResolveStats) string {
	rows := [][]string{
		{"Total artists", strconv.Itoa(stats.Total)},
		{"Successfully enriched", percent(stats.Success, stats.Total)},
		{"Not found", percent(stats.NotFound, stats.Total)},
		{"No location data", percent(stats.NoLocationData, stats.Total)},
		{"Failed", percent(stats.Failed, stats.Total)},
		{"From cache", percent(stats.CacheHits, stats.Total)},
		{"Missing city", percent(stats.NoCity, stats.Total)},
		{"Missing area", percent(stats.NoArea, stats.Total)},
		{"Missing country", percent(stats.NoCountry, stats.Total)},
	}
	return renderTable("Location Enrichment", rows)
}

// RenderGeocodeStats renders the geocoding summary table.
func RenderGeocodeStats(stats *tasks.GeocodeStats) string {
	rows := [][]string{
		{"Total locations", strconv.Itoa(stats.TotalLocations)},
		{"Successful geocodes", strconv.Itoa(stats.Successful)},
		{"Successful retry geocodes", strconv.Itoa(stats.SuccessfulRetries)},
		{"Failed geocodes", strconv.Itoa(stats.Failed)},
		{"From cache", strconv.Itoa(stats.CacheHits)},
		{"Empty locations", strconv.Itoa(stats.EmptyLocations)},
	}
	return renderTable("Geocoding", rows)
}

// RenderTopErrors renders the bounded most-frequent-errors list, or ""
// when there were none.
func RenderTopErrors(errors []tasks.ErrorCount) string {
	if len(errors) == 0 {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteString("Common errors:\n")
	for _, e := range errors {
		fmt.Fprintf(&buf, "- %s: %d times\n", e.Message, e.Count)
	}
	return buf.String()
}

// coordinateGroupDoc is one entry of the exported artist map.
type coordinateGroupDoc struct {
	Coordinates models.Coordinate `json:"coordinates"`
	Artists     []string          `json:"artists"`
}

// WriteCoordinateMap writes the coordinate → artists grouping as a
// JSON array in first-seen coordinate order.
func WriteCoordinateMap(coords *models.CoordinateMap, path string) error {
	docs := make([]coordinateGroupDoc, 0, coords.Len())
	for _, group := range coords.Groups() {
		docs = append(docs, coordinateGroupDoc{
			Coordinates: group.Coordinate,
			Artists:     group.Artists,
		})
	}

	data, err := shared.MarshalJSON(docs, true)
	if err != nil {
		return fmt.Errorf("failed to encode coordinate map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write coordinate map: %w", err)
	}
	return nil
}

// GeoJSON document types. Positions are [lng, lat] per RFC 7946.
type geoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   geoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// WriteGeoJSON writes the coordinate map as a FeatureCollection of
// Points, one feature per coordinate with its artist list as a
// property.
func WriteGeoJSON(coords *models.CoordinateMap, path string) error {
	collection := geoJSONCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, 0, coords.Len()),
	}

	for _, group := range coords.Groups() {
		collection.Features = append(collection.Features, geoJSONFeature{
			Type: "Feature",
			Geometry: geoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{group.Coordinate.Lng, group.Coordinate.Lat},
			},
			Properties: map[string]any{
				"artists": group.Artists,
			},
		})
	}

	data, err := shared.MarshalJSON(collection, true)
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write GeoJSON: %w", err)
	}
	return nil
}

// WriteArtistCSV writes one row per artist with its coordinates, for
// spreadsheet inspection. Rows follow the map's group order.
func WriteArtistCSV(coords *models.CoordinateMap, path string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Artist", "Latitude", "Longitude"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range coords.Groups() {
		for _, artist := range group.Artists {
			record := []string{
				artist,
				strconv.FormatFloat(group.Coordinate.Lat, 'f', -1, 64),
				strconv.FormatFloat(group.Coordinate.Lng, 'f', -1, 64),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
