// Package cache provides the short-lived response cache consulted before
// upstream source fetches.
//
// Keys identify a (user, source, date-bucket) triple. Live-fetch entries
// default to a two minute lifetime; credential caching upstream uses a much
// longer 24h lifetime and is owned by the token layer, not this cache. The
// store is injected wherever it is needed rather than held as a process-wide
// singleton, so multiple service instances can be pointed at a shared
// implementation.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/halcyard/pulse/internal/domain/model"
)

// DefaultTTL is the lifetime of a cached live fetch.
const DefaultTTL = 2 * time.Minute

// Store is the response-cache contract. Implementations must be safe for
// concurrent use; concurrent evaluations may race to populate the same key
// and at-most-duplicate fetch is an accepted tradeoff.
type Store interface {
	// Get returns the cached payload for key if present and unexpired.
	Get(ctx context.Context, key string) (model.RawPayload, bool)

	// Set stores payload under key with the store's TTL.
	Set(ctx context.Context, key string, payload model.RawPayload)
}

// Key builds the canonical (user, source, date-bucket) cache key.
func Key(userID string, kind model.SourceKind, at time.Time) string {
	return fmt.Sprintf("%s|%s|%s", userID, kind, at.UTC().Format("2006-01-02"))
}

// entry pairs a payload with its expiry deadline.
type entry struct {
	payload   model.RawPayload
	expiresAt time.Time
}

// MemoryStore implements Store with an in-process map and lazy expiry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory cache with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached payload for key, expiring stale entries on read.
func (s *MemoryStore) Get(_ context.Context, key string) (model.RawPayload, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return model.RawPayload{}, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a writer may have refreshed it.
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return model.RawPayload{}, false
	}
	return e.payload, true
}

// Set stores payload under key with the configured TTL.
func (s *MemoryStore) Set(_ context.Context, key string, payload model.RawPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{payload: payload, expiresAt: s.now().Add(s.ttl)}
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
