package tasks

import (
	"sort"
	"sync"

	"github.com/desertthunder/geolist/internal/models"
)

// ErrorCount is one row of the most-frequent-errors table.
type ErrorCount struct {
	Message string
	Count   int
}

// errorCounter is a frequency table of stringified errors. Callers
// hold the owning stats mutex.
type errorCounter map[string]int

func (c errorCounter) add(msg string) {
	c[msg]++
}

// top returns the n most frequent messages, ties broken by message so
// reports are stable.
func (c errorCounter) top(n int) []ErrorCount {
	out := make([]ErrorCount, 0, len(c))
	for msg, count := range c {
		out = append(out, ErrorCount{Message: msg, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Message < out[j].Message
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ResolveStats accumulates location-resolution outcomes across workers.
// Each artist increments exactly one of Success, NotFound,
// NoLocationData, or Failed; CacheHits and the missing-field counters
// are additive metadata on top.
type ResolveStats struct {
	mu             sync.Mutex
	Total          int
	Success        int
	NotFound       int
	NoLocationData int
	Failed         int
	CacheHits      int
	NoCity         int
	NoArea         int
	NoCountry      int
	errors         errorCounter
}

// NewResolveStats creates a zeroed ResolveStats.
func NewResolveStats() *ResolveStats {
	return &ResolveStats{errors: make(errorCounter)}
}

func (s *ResolveStats) setTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Total = n
}

func (s *ResolveStats) recordCacheHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CacheHits++
}

// recordOutcome increments the primary counter for status and the
// missing-field counters from the descriptor that was ultimately
// produced, cached or fresh.
func (s *ResolveStats) recordOutcome(status string, city, area, country string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch status {
	case models.StatusSuccess:
		s.Success++
	case models.StatusNotFound:
		s.NotFound++
	case models.StatusNoLocationData:
		s.NoLocationData++
	default:
		s.Failed++
	}

	if city == "" {
		s.NoCity++
	}
	if area == "" {
		s.NoArea++
	}
	if country == "" {
		s.NoCountry++
	}
}

// recordErrorMessage feeds the error-frequency table. The primary
// error counter is handled by recordOutcome.
func (s *ResolveStats) recordErrorMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors.add(msg)
}

// TopErrors returns the n most frequent error messages.
func (s *ResolveStats) TopErrors(n int) []ErrorCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.top(n)
}

// GeocodeStats accumulates geocoding outcomes for one pass.
type GeocodeStats struct {
	mu                sync.Mutex
	TotalLocations    int
	Successful        int // first-attempt geocodes
	SuccessfulRetries int // degraded-query geocodes
	Failed            int
	CacheHits         int
	EmptyLocations    int
	errors            errorCounter
}

// NewGeocodeStats creates a zeroed GeocodeStats.
func NewGeocodeStats() *GeocodeStats {
	return &GeocodeStats{errors: make(errorCounter)}
}

func (s *GeocodeStats) setTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalLocations = n
}

func (s *GeocodeStats) recordCacheHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CacheHits++
}

func (s *GeocodeStats) recordSuccess(degraded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if degraded {
		s.SuccessfulRetries++
	} else {
		s.Successful++
	}
}

func (s *GeocodeStats) recordEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EmptyLocations++
}

func (s *GeocodeStats) recordFailure(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
	if msg != "" {
		s.errors.add(msg)
	}
}

// TopErrors returns the n most frequent error messages.
func (s *GeocodeStats) TopErrors(n int) []ErrorCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.top(n)
}
