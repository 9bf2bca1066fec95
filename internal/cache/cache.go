// package cache implements the write-through key-value stores backing
// the location resolver and geocoder.
//
// A store is the single source of truth for "have we already resolved
// this": once a key holds a terminal result, later lookups return it
// without touching the external service, across runs. Every Put
// persists before returning, so a crash loses at most the in-flight
// lookup.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// Store is a write-through cache from string key to a JSON-serializable
// value. Implementations must be safe for concurrent use: the resolver
// mutates its store from many workers.
type Store[V any] interface {
	// Get returns the cached value for key and whether it was present.
	Get(key string) (V, bool)

	// Put stores value under key and persists it before returning.
	Put(key string, value V) error

	// Len returns the number of cached entries.
	Len() int
}

// FileStore persists entries as a single JSON document mapping key to
// value. The whole document is read at construction and rewritten,
// not appended, after each new entry.
type FileStore[V any] struct {
	path    string
	logger  *log.Logger
	mu      sync.RWMutex
	entries map[string]V
}

// NewFileStore loads the document at path, or starts empty when the
// file is missing or unreadable. Load failures are never fatal; they
// just cost re-queries.
func NewFileStore[V any](path string, logger *log.Logger) *FileStore[V] {
	s := &FileStore[V]{
		path:    path,
		logger:  logger,
		entries: make(map[string]V),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Warnf("failed to read cache %s: %v", path, err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		if logger != nil {
			logger.Warnf("cache %s is corrupt, starting empty: %v", path, err)
		}
		s.entries = make(map[string]V)
	}
	return s
}

// Get returns the cached value for key.
func (s *FileStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores value under key and rewrites the backing file. A persist
// failure is logged and the in-memory entry kept, so the run continues
// with a warm cache even on a read-only disk.
func (s *FileStore[V]) Put(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			s.warnPersist(err)
			return nil
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.warnPersist(err)
	}
	return nil
}

func (s *FileStore[V]) warnPersist(err error) {
	if s.logger != nil {
		s.logger.Warnf("failed to persist cache %s: %v", s.path, err)
	}
}

// Len returns the number of cached entries.
func (s *FileStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// MemoryStore is an in-memory Store with no persistence. Used in
// tests and for cache-disabled runs.
type MemoryStore[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key.
func (s *MemoryStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores value under key.
func (s *MemoryStore[V]) Put(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
