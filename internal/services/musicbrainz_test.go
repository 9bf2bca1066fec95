package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/geolist/internal/shared"
)

func TestMusicBrainzSearchArtist(t *testing.T) {
	t.Run("maps full match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "test-agent/1.0" {
				t.Errorf("expected custom User-Agent, got %q", got)
			}
			if !strings.Contains(r.URL.RawQuery, "fmt=json") {
				t.Errorf("expected fmt=json in query, got %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"artists":[{
				"id":"mbid-1",
				"name":"Kings of Convenience",
				"score":100,
				"country":"NO",
				"area":{"name":"Norway"},
				"begin-area":{"name":"Bergen"}
			}]}`))
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "test-agent/1.0", srv.Client())

		match, err := svc.SearchArtist(context.Background(), "Kings of Convenience")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if match == nil {
			t.Fatal("expected a match")
		}
		if match.BeginArea != "Bergen" || match.Area != "Norway" || match.Country != "NO" {
			t.Errorf("unexpected match: %+v", match)
		}
	})

	t.Run("missing areas leave fields empty", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"artists":[{"id":"mbid-2","name":"Mystery","score":90}]}`))
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "", srv.Client())

		match, err := svc.SearchArtist(context.Background(), "Mystery")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if match.BeginArea != "" || match.Area != "" || match.Country != "" {
			t.Errorf("expected empty location fields, got %+v", match)
		}
	})

	t.Run("no results is nil match without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"artists":[]}`))
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "", srv.Client())

		match, err := svc.SearchArtist(context.Background(), "Nobody At All")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if match != nil {
			t.Errorf("expected nil match, got %+v", match)
		}
	})

	t.Run("rate limiting is transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "", srv.Client())

		_, err := svc.SearchArtist(context.Background(), "Anyone")
		if err == nil {
			t.Fatal("expected error for 429")
		}
		if !IsTransient(err) {
			t.Errorf("expected transient error, got %v", err)
		}
	})

	t.Run("server errors are transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "", srv.Client())

		_, err := svc.SearchArtist(context.Background(), "Anyone")
		if !IsTransient(err) {
			t.Errorf("expected transient error for 503, got %v", err)
		}
	})

	t.Run("client errors are not transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		svc := NewMusicBrainzService(srv.URL, "", srv.Client())

		_, err := svc.SearchArtist(context.Background(), "Anyone")
		if err == nil {
			t.Fatal("expected error for 400")
		}
		if IsTransient(err) {
			t.Errorf("expected permanent error, got transient: %v", err)
		}
	})
}

func TestIsTransient(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"tagged", markTransient(errors.New("boom")), true},
		{"deadline", context.DeadlineExceeded, true},
		{"plain", errors.New("boom"), false},
		{"sentinel", shared.ErrTransient, true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
