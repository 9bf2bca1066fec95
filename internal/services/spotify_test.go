package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/geolist/internal/shared"
	"golang.org/x/oauth2"
)

func newTestSpotify(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "id",
		"client_secret": "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.baseURL = srv.URL
	svc.token = &oauth2.Token{AccessToken: "token"}
	svc.httpClient = srv.Client()

	return svc, srv
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires client_id", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_secret": "s"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("requires client_secret", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_id": "i"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults redirect URI", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "i",
			"client_secret": "s",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.config.RedirectURL != "http://localhost:8080/callback" {
			t.Errorf("unexpected redirect URL: %s", svc.config.RedirectURL)
		}
	})

	t.Run("auth URL carries state and scope", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "i",
			"client_secret": "s",
		})
		if err != nil {
			t.Fatal(err)
		}
		authURL := svc.GetAuthURL("state-123")
		if !strings.Contains(authURL, "state=state-123") {
			t.Errorf("expected state in auth URL: %s", authURL)
		}
		if !strings.Contains(authURL, "user-library-read") {
			t.Errorf("expected scope in auth URL: %s", authURL)
		}
	})
}

func TestSavedTracks(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "i",
			"client_secret": "s",
		})
		if err != nil {
			t.Fatal(err)
		}

		_, err = svc.SavedTracks(context.Background(), 50, 0)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("clamps page size", func(t *testing.T) {
		var gotLimit string
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit")
			w.Write([]byte(`{"items":[],"total":0,"limit":50,"offset":0}`))
		}))

		if _, err := svc.SavedTracks(context.Background(), 500, 0); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if gotLimit != "50" {
			t.Errorf("expected limit clamped to 50, got %s", gotLimit)
		}
	})

	t.Run("server errors are transient", func(t *testing.T) {
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := svc.SavedTracks(context.Background(), 50, 0)
		if !IsTransient(err) {
			t.Errorf("expected transient error for 502, got %v", err)
		}
	})
}

func TestFetchSavedTracks(t *testing.T) {
	t.Run("reassembles pages in offset order", func(t *testing.T) {
		const total = 120

		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

			items := make([]string, 0, limit)
			for i := offset; i < offset+limit && i < total; i++ {
				items = append(items, fmt.Sprintf(
					`{"track":{"id":"t%03d","name":"Track %d","artists":[{"id":"a1","name":"Artist"}]}}`, i, i))
			}
			fmt.Fprintf(w, `{"items":[%s],"total":%d,"limit":%d,"offset":%d}`,
				strings.Join(items, ","), total, limit, offset)
		}))

		items, err := svc.FetchSavedTracks(context.Background())
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(items) != total {
			t.Fatalf("expected %d items, got %d", total, len(items))
		}
		for i, item := range items {
			want := fmt.Sprintf("t%03d", i)
			if item.Track.ID != want {
				t.Fatalf("item %d out of order: got %s, want %s", i, item.Track.ID, want)
			}
		}
	})

	t.Run("empty library is nil without error", func(t *testing.T) {
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[],"total":0,"limit":1,"offset":0}`))
		}))

		items, err := svc.FetchSavedTracks(context.Background())
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if items != nil {
			t.Errorf("expected nil items, got %v", items)
		}
	})

	t.Run("page failure aborts the fetch", func(t *testing.T) {
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			offset := r.URL.Query().Get("offset")
			if offset == "50" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"items":[],"total":120,"limit":50,"offset":0}`))
		}))

		if _, err := svc.FetchSavedTracks(context.Background()); err == nil {
			t.Error("expected error when a page fetch fails")
		}
	})
}
