package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	GroupArtists
	ResolveLocations
	GeocodeLocations
	WriteOutputs
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case GroupArtists:
		return "group_artists"
	case ResolveLocations:
		return "resolve_locations"
	case GeocodeLocations:
		return "geocode_locations"
	case WriteOutputs:
		return "write_outputs"
	default:
		return ""
	}
}

func fetchTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: "Retrieving saved tracks from Spotify...",
	}
}

func buildLibraryUpdate(step, total int, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GroupArtists,
		Step:    step,
		Total:   total,
		Message: "Building library...",
		Data:    artist,
	}
}

func resolveUpdate(step, total int, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveLocations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving artist locations... (%d/%d)", step, total),
		Data:    artist,
	}
}

func geocodeUpdate(step, total int, location string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GeocodeLocations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Geocoding artist locations... (%d/%d)", step, total),
		Data:    location,
	}
}
