// Package cache holds lookups and standings tables between scoring passes.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
)

// Lookup results reported to an Observer.
const (
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultLoadError = "load_error"
)

// Observer counts lookups per key namespace, the part of the key before
// the first ':'.
type Observer interface {
	ObserveCacheLookup(namespace, result string)
}

type Option func(*Store)

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. A nil *Store is valid and caches
// nothing; a ttl <= 0 never expires entries.
type Store struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	now      func() time.Time
	flight   resilience.Flight
	observer Observer
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{entries: make(map[string]entry), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len counts live and not yet evicted entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Invalidate drops every key starting with prefix and reports how many went.
func (s *Store) Invalidate(_ context.Context, prefix string) int {
	if s == nil || prefix == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *Store) lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) put(key string, value any) {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) observe(key, result string) {
	if s.observer == nil {
		return
	}
	namespace, _, _ := strings.Cut(key, ":")
	s.observer.ObserveCacheLookup(namespace, result)
}

// Load returns the cached value for key or runs loader once, however many
// callers miss at the same time. Errors are not cached.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	if s == nil || key == "" {
		return loader(ctx)
	}

	var zero T
	if value, ok := s.lookup(key); ok {
		s.observe(key, ResultHit)
		return cast[T](key, value)
	}
	s.observe(key, ResultMiss)

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.put(key, loaded)
		return loaded, nil
	})
	if err != nil {
		s.observe(key, ResultLoadError)
		return zero, err
	}
	return cast[T](key, value)
}

func cast[T any](key string, value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}
	return typed, nil
}
