package cache

import (
	"context"
	"sync"
	"time"
)

// Store is an in-process TTL cache. Lookups are lock-cheap reads and
// concurrent loads for the same key are collapsed into one loader call.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	inflightMu sync.Mutex
	inflight   map[string]*loadCall

	now func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

type loadCall struct {
	done chan struct{}
	val  any
	err  error
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]entry),
		inflight: make(map[string]*loadCall),
		now:      time.Now,
	}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading and caching it on a
// miss. Only one loader runs per key at a time; other callers wait for it.
// Loader errors are returned to every waiter and nothing is cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	s.inflightMu.Lock()
	if c, ok := s.inflight[key]; ok {
		s.inflightMu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c := &loadCall{done: make(chan struct{})}
	s.inflight[key] = c
	s.inflightMu.Unlock()

	// Recheck after winning the inflight slot, another loader may have
	// finished between the miss and the lock.
	if v, ok := s.Get(key); ok {
		c.val = v
		s.finish(key, c)
		return v, nil
	}

	c.val, c.err = load(ctx)
	if c.err == nil {
		s.Set(key, c.val, ttl)
	}
	s.finish(key, c)

	return c.val, c.err
}

// PurgeExpired drops every expired entry and reports how many were removed.
func (s *Store) PurgeExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}

	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) finish(key string, c *loadCall) {
	close(c.done)
	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
}
