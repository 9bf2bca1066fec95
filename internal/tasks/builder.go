package tasks

import (
	"github.com/desertthunder/geolist/internal/models"
)

// BuildLibrary groups a flat saved-track list by primary artist.
//
// The first artist listed on a track owns it; a duplicate track id for
// the same artist overwrites rather than duplicates, so rebuilding
// from an overlapping list is idempotent. Item order is irrelevant to
// the output content. Progress is emitted once per item.
func BuildLibrary(items []models.SavedTrackItem, progress chan<- ProgressUpdate) models.Library {
	library := make(models.Library)

	for i, item := range items {
		track := item.Track
		artist, ok := track.PrimaryArtist()
		if !ok {
			sendProgress(progress, buildLibraryUpdate(i+1, len(items), ""))
			continue
		}

		record, ok := library[artist.Name]
		if !ok {
			record = &models.ArtistRecord{
				ArtistID:  artist.ID,
				ArtistURI: artist.URI,
				Songs:     make(map[string]models.Track),
			}
			library[artist.Name] = record
		}

		record.Songs[track.ID] = models.Track{
			ID:          track.ID,
			Name:        track.Name,
			Popularity:  track.Popularity,
			ReleaseYear: track.Album.ReleaseYear(),
		}

		sendProgress(progress, buildLibraryUpdate(i+1, len(items), artist.Name))
	}

	return library
}
