// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/geolist/internal/services"
)

// MockDirectory is a test double for [services.Directory]. The
// SearchFunc hook lets tests script per-artist responses. The call
// counter is atomic because the resolver fans lookups out to workers.
type MockDirectory struct {
	SearchFunc func(ctx context.Context, name string) (*services.ArtistMatch, error)
	calls      atomic.Int64
}

func (m *MockDirectory) SearchArtist(ctx context.Context, name string) (*services.ArtistMatch, error) {
	m.calls.Add(1)
	if m.SearchFunc == nil {
		return nil, nil
	}
	return m.SearchFunc(ctx, name)
}

func (m *MockDirectory) Name() string { return "mock-directory" }

func (m *MockDirectory) Calls() int { return int(m.calls.Load()) }

// MockGeocoder is a test double for [services.Geocoder].
type MockGeocoder struct {
	GeocodeFunc func(ctx context.Context, query string) (*services.Place, error)
	calls       atomic.Int64
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (*services.Place, error) {
	m.calls.Add(1)
	if m.GeocodeFunc == nil {
		return nil, nil
	}
	return m.GeocodeFunc(ctx, query)
}

func (m *MockGeocoder) Calls() int { return int(m.calls.Load()) }

func (m *MockGeocoder) Name() string { return "mock-geocoder" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
