// Package cache provides the time-bounded, single-flight result cache
// keyed by normalized listing URL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// DefaultTTL is the absolute entry lifetime measured from creation.
const DefaultTTL = 24 * time.Hour

// Entry is a cached pipeline result. Entries are only created after a
// fully successful scrape+normalize+predict run.
type Entry struct {
	Key       string             `json:"key"`
	Value     *domain.Evaluation `json:"value"`
	CreatedAt time.Time          `json:"created_at"`
}

// Backend stores entries. Implementations: bounded in-memory LRU and
// redis. TTL policy lives in Store, not in backends.
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) int
}

// Key derives the stable cache key for a normalized URL.
func Key(normalizedURL string) string {
	sum := sha256.Sum256([]byte(normalizedURL))
	return hex.EncodeToString(sum[:])
}

// call tracks one in-flight computation shared by concurrent callers.
type call struct {
	done  chan struct{}
	value *domain.Evaluation
	err   error
}

// Store is the cache facade: read-time TTL evaluation plus the
// single-flight guarantee. For any key, at most one pipeline runs at a
// time; concurrent callers for that key block and share its result.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	inflight map[string]*call
}

// NewStore wraps a backend with TTL and single-flight semantics.
func NewStore(backend Backend, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		backend:  backend,
		ttl:      ttl,
		now:      time.Now,
		inflight: make(map[string]*call),
	}
}

// Get returns a live entry's value. Expired entries behave as a miss
// and are evicted. TTL is evaluated at read time against CreatedAt.
func (s *Store) Get(ctx context.Context, key string) (*domain.Evaluation, bool, error) {
	entry, ok, err := s.backend.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if s.expired(entry) {
		_ = s.backend.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// GetOrCompute returns the cached value for key, or runs compute exactly
// once to produce it. Concurrent callers with the same key wait for the
// in-flight computation and receive its result. The second return
// reports whether the value came from cache.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*domain.Evaluation, error)) (*domain.Evaluation, bool, error) {
	s.mu.Lock()
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.value, c.value != nil && c.err == nil, c.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		close(c.done)
	}()

	// Leader re-checks the backend: the entry may have landed between
	// the caller's miss and acquiring the flight.
	if value, ok, err := s.Get(ctx, key); err == nil && ok {
		c.value, c.err = value, nil
		return value, true, nil
	}

	value, err := compute(ctx)
	if err != nil {
		c.err = err
		return nil, false, err
	}

	entry := &Entry{Key: key, Value: value, CreatedAt: s.now()}
	if err := s.backend.Set(ctx, key, entry); err != nil {
		// Serving the computed value beats failing the request over a
		// cache write error.
		c.value = value
		return value, false, nil
	}

	c.value = value
	return value, false, nil
}

// Invalidate removes an entry, forcing the next request to recompute.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Size reports the number of stored entries, live or not.
func (s *Store) Size(ctx context.Context) int {
	return s.backend.Len(ctx)
}

func (s *Store) expired(entry *Entry) bool {
	return !s.now().Before(entry.CreatedAt.Add(s.ttl))
}
