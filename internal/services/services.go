// package services defines clients for the external HTTP APIs the
// pipeline depends on
//
// MusicBrainz (artist directory), Nominatim (geocoding), Spotify
// (saved-track producer)
package services

import (
	"context"
	"errors"
	"net"

	"github.com/desertthunder/geolist/internal/shared"
)

// Directory looks up an artist's origin in an external directory
// service, returning at most one best match.
type Directory interface {
	// SearchArtist returns the best match for the artist name, or
	// (nil, nil) when the directory has no match at all.
	SearchArtist(ctx context.Context, name string) (*ArtistMatch, error)

	// Name returns the name of the backing service.
	Name() string
}

// ArtistMatch is the best directory match for an artist name.
type ArtistMatch struct {
	ID        string
	Name      string
	BeginArea string // city-level origin ("begin area")
	Area      string
	Country   string
	Score     int
}

// Geocoder converts a free-text location into coordinates, returning
// at most one best match.
type Geocoder interface {
	// Geocode returns the best match for the query, or (nil, nil)
	// when the service finds nothing.
	Geocode(ctx context.Context, query string) (*Place, error)

	// Name returns the name of the backing service.
	Name() string
}

// Place is a geocoded location.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// transientErr wraps an error so it matches [shared.ErrTransient] via
// errors.Is, marking it retryable.
type transientErr struct{ err error }

func (e transientErr) Error() string { return e.err.Error() }
func (e transientErr) Unwrap() error { return e.err }
func (e transientErr) Is(target error) bool {
	return target == shared.ErrTransient
}

// markTransient tags err as retryable.
func markTransient(err error) error {
	return transientErr{err: err}
}

// IsTransient reports whether err is a fault worth retrying: a tagged
// service error, a network timeout, or a context deadline.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrTransient) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
