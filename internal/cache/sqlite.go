package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	bucket TEXT NOT NULL,
	key    TEXT NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (bucket, key)
);`

// SQLiteStore persists entries in a shared SQLite database, one row
// per key. Buckets keep the resolver and geocoder caches apart in the
// same database file.
//
// Entries are loaded once at construction; Put upserts the row
// immediately (write-through) while serving reads from memory.
type SQLiteStore[V any] struct {
	db      *sql.DB
	bucket  string
	logger  *log.Logger
	mu      sync.RWMutex
	entries map[string]V
}

// NewSQLiteStore creates the schema if needed and loads the bucket's
// entries. Row-level load failures degrade to an empty cache, matching
// the file store's behavior.
func NewSQLiteStore[V any](db *sql.DB, bucket string, logger *log.Logger) (*SQLiteStore[V], error) {
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	s := &SQLiteStore[V]{
		db:      db,
		bucket:  bucket,
		logger:  logger,
		entries: make(map[string]V),
	}

	rows, err := db.Query("SELECT key, value FROM cache_entries WHERE bucket = ?", bucket)
	if err != nil {
		if logger != nil {
			logger.Warnf("failed to load cache bucket %s, starting empty: %v", bucket, err)
		}
		return s, nil
	}
	defer rows.Close()

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			continue
		}
		var value V
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			if logger != nil {
				logger.Warnf("skipping corrupt cache entry %s/%s: %v", bucket, key, err)
			}
			continue
		}
		s.entries[key] = value
	}

	return s, nil
}

// Get returns the cached value for key.
func (s *SQLiteStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores value under key and upserts the backing row. A persist
// failure is logged, not fatal; the in-memory entry survives the run.
func (s *SQLiteStore[V]) Put(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO cache_entries (bucket, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value`,
		s.bucket, key, string(raw),
	)
	if err != nil && s.logger != nil {
		s.logger.Warnf("failed to persist cache entry %s/%s: %v", s.bucket, key, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (s *SQLiteStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every entry in the bucket, in memory and on disk.
func (s *SQLiteStore[V]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM cache_entries WHERE bucket = ?", s.bucket); err != nil {
		return fmt.Errorf("failed to clear cache bucket %s: %w", s.bucket, err)
	}
	s.entries = make(map[string]V)
	return nil
}
