// Raw Spotify API input types consumed by the library builder.
//
// Shapes follow https://developer.spotify.com/documentation/web-api/reference/
package models

// SpotifyArtist represents a Spotify artist reference on a track.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum carries the album metadata the builder needs.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// SpotifyTrack represents a Spotify track with its artists and album.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SavedTrackItem is one entry of the user's saved-tracks library.
type SavedTrackItem struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SavedTracksPage is a paginated saved-tracks response.
type SavedTracksPage struct {
	Items    []SavedTrackItem `json:"items"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
}

// PrimaryArtist returns the first artist listed on the track, the one
// the library is keyed by. False when the track carries no artists.
func (t SpotifyTrack) PrimaryArtist() (SpotifyArtist, bool) {
	if len(t.Artists) == 0 {
		return SpotifyArtist{}, false
	}
	return t.Artists[0], true
}

// ReleaseYear normalizes the album release date to a 4-digit year by
// truncation. Malformed dates pass through unvalidated; downstream
// does not depend on exactness.
func (a SpotifyAlbum) ReleaseYear() string {
	if len(a.ReleaseDate) > 4 {
		return a.ReleaseDate[:4]
	}
	return a.ReleaseDate
}
