package cache

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// entry is the unit of storage. Values are owned by the store; readers must
// treat them as immutable, and the loader layer hands out copies.
type entry struct {
	value     any
	writtenAt time.Time
}

// Store is a keyed in-memory store with a fixed time-to-live per entry.
//
// Expiry is evaluated lazily: Get and Has check the entry age at call time
// and remove expired entries as a side effect of the check. There is no
// background eviction goroutine and no capacity bound; the store is sized by
// the number of distinct resources a session touches.
//
// Every write replaces the whole value for its key. The store never merges.
//
// Each key additionally carries a monotonically increasing request
// generation. Loaders snapshot the generation with Begin before fetching and
// publish with CompareAndSet, so a refresh that was superseded while in
// flight is discarded instead of clobbering a newer result.
type Store struct {
	ttl     time.Duration
	now     func() time.Time
	entries *xsync.MapOf[string, entry]
	gens    *xsync.MapOf[string, uint64]
}

// NewStore creates a store from the provided configuration.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Store{
		ttl:     cfg.TTL,
		now:     now,
		entries: xsync.NewMapOf[string, entry](),
		gens:    xsync.NewMapOf[string, uint64](),
	}, nil
}

// Set stores value under key, stamping the current time. Any previous value
// for the key is replaced wholesale.
func (s *Store) Set(key string, value any) {
	s.entries.Store(key, entry{value: value, writtenAt: s.now()})
}

// Get returns the value for key if present and within TTL. An expired entry
// is removed as a side effect and reported as absent.
func (s *Store) Get(key string) (any, bool) {
	e, ok := s.entries.Load(key)
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		s.entries.Delete(key)
		return nil, false
	}
	return e.value, true
}

// Has reports whether key holds a live entry. Like Get, it evicts an expired
// entry as a side effect.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Peek returns the value for key regardless of TTL, along with whether the
// entry is still fresh. Unlike Get it never evicts; loaders use it to fall
// back to stale data when a refresh fails.
func (s *Store) Peek(key string) (value any, fresh bool, ok bool) {
	e, loaded := s.entries.Load(key)
	if !loaded {
		return nil, false, false
	}
	return e.value, !s.expired(e), true
}

// Delete removes the entry for key, if any.
func (s *Store) Delete(key string) {
	s.entries.Delete(key)
}

// DeleteByPrefix removes every entry whose key starts with prefix. Useful
// for invalidating all cached resources of one project in a single call.
func (s *Store) DeleteByPrefix(prefix string) {
	s.entries.Range(func(key string, _ entry) bool {
		if strings.HasPrefix(key, prefix) {
			s.entries.Delete(key)
		}
		return true
	})
}

// Clear removes all entries. Request generations are retained so that
// in-flight fetches started before the clear still publish correctly.
func (s *Store) Clear() {
	s.entries.Clear()
}

// Size returns the number of entries currently held, expired ones included.
func (s *Store) Size() int {
	return s.entries.Size()
}

// Begin issues a new request generation for key. The returned token is valid
// for exactly one CompareAndSet.
func (s *Store) Begin(key string) uint64 {
	gen, _ := s.gens.Compute(key, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
	return gen
}

// CompareAndSet stores value under key only if gen is still the latest
// generation issued for that key. It reports whether the write was applied.
func (s *Store) CompareAndSet(key string, gen uint64, value any) bool {
	latest, ok := s.gens.Load(key)
	if !ok || latest != gen {
		return false
	}
	s.Set(key, value)
	return true
}

func (s *Store) expired(e entry) bool {
	return s.now().Sub(e.writtenAt) >= s.ttl
}

// FetchFn is the function signature the read-through helpers expect when
// fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// GetOrFetch is the type-safe read-through operation every loader is built
// on. Unless force is set, a fresh cached value is returned without touching
// the source. Otherwise fetch runs under a request generation token and the
// result is published with CompareAndSet, so overlapping refreshes of the
// same key cannot resurrect a superseded response.
//
// When fetch fails and a previous entry exists for the key (fresh or stale),
// that value is returned alongside the error: callers keep showing the last
// good data and surface the failure separately. The cache entry itself is
// left untouched on failure.
func GetOrFetch[T any](ctx context.Context, s *Store, key string, force bool, fetch FetchFn[T]) (T, error) {
	if !force {
		if v, fresh, ok := s.Peek(key); ok && fresh {
			if typed, match := v.(T); match {
				return typed, nil
			}
		}
	}

	gen := s.Begin(key)

	fetched, err := fetch(ctx)
	if err != nil {
		if v, _, ok := s.Peek(key); ok {
			if typed, match := v.(T); match {
				return typed, err
			}
		}
		var zero T
		return zero, err
	}

	s.CompareAndSet(key, gen, fetched)
	return fetched, nil
}

// Value returns the fresh cached value for key, typed. A missing, expired,
// or differently-typed entry reads as absent; expired entries are evicted.
func Value[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, match := v.(T)
	if !match {
		return zero, false
	}
	return typed, true
}

// PeekValue is like Value but also returns expired entries and never evicts.
func PeekValue[T any](s *Store, key string) (T, bool) {
	var zero T
	v, _, ok := s.Peek(key)
	if !ok {
		return zero, false
	}
	typed, match := v.(T)
	if !match {
		return zero, false
	}
	return typed, true
}
