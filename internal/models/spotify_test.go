package models

import "testing"

func TestPrimaryArtist(t *testing.T) {
	t.Run("returns first artist", func(t *testing.T) {
		track := SpotifyTrack{
			Artists: []SpotifyArtist{
				{ID: "a1", Name: "Lead"},
				{ID: "a2", Name: "Feature"},
			},
		}

		artist, ok := track.PrimaryArtist()
		if !ok {
			t.Fatal("expected an artist")
		}
		if artist.Name != "Lead" {
			t.Errorf("expected Lead, got %s", artist.Name)
		}
	})

	t.Run("false for trackless artists", func(t *testing.T) {
		if _, ok := (SpotifyTrack{}).PrimaryArtist(); ok {
			t.Error("expected no artist for empty slice")
		}
	})
}

func TestReleaseYear(t *testing.T) {
	tc := []struct {
		name string
		date string
		want string
	}{
		{"full date", "2004-06-21", "2004"},
		{"year only", "2004", "2004"},
		{"empty", "", ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			album := SpotifyAlbum{ReleaseDate: tt.date}
			if got := album.ReleaseYear(); got != tt.want {
				t.Errorf("ReleaseYear() = %q, want %q", got, tt.want)
			}
		})
	}
}
