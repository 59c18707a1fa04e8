package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", 42, time.Minute)

	v, ok := s.Get("k")
	if !ok {
		t.Fatalf("Get() miss, want hit")
	}
	if v != 42 {
		t.Fatalf("Get() = %v, want 42", v)
	}
}

func TestStoreExpiry(t *testing.T) {
	t.Parallel()

	s := NewStore()
	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	s.Set("k", "v", 30*time.Second)

	if _, ok := s.Get("k"); !ok {
		t.Fatalf("Get() before expiry: miss, want hit")
	}

	current = current.Add(31 * time.Second)

	if _, ok := s.Get("k"); ok {
		t.Fatalf("Get() after expiry: hit, want miss")
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len() after expired read = %d, want 0", got)
	}
}

func TestStoreGetOrLoadCachesResult(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var calls atomic.Int32

	load := func(context.Context) (any, error) {
		calls.Add(1)
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		v, err := s.GetOrLoad(context.Background(), "k", time.Minute, load)
		if err != nil {
			t.Fatalf("GetOrLoad() round %d: %v", i, err)
		}
		if v != "loaded" {
			t.Fatalf("GetOrLoad() = %v, want loaded", v)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStoreGetOrLoadErrorNotCached(t *testing.T) {
	t.Parallel()

	s := NewStore()
	boom := errors.New("boom")
	var calls atomic.Int32

	load := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := s.GetOrLoad(context.Background(), "k", time.Minute, load); !errors.Is(err, boom) {
		t.Fatalf("GetOrLoad() first call err = %v, want boom", err)
	}

	v, err := s.GetOrLoad(context.Background(), "k", time.Minute, load)
	if err != nil {
		t.Fatalf("GetOrLoad() retry: %v", err)
	}
	if v != "ok" {
		t.Fatalf("GetOrLoad() retry = %v, want ok", v)
	}
}

func TestStoreGetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var (
		calls   atomic.Int32
		release = make(chan struct{})
		started = make(chan struct{})
	)

	load := func(context.Context) (any, error) {
		calls.Add(1)
		close(started)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.GetOrLoad(context.Background(), "k", time.Minute, load); err != nil {
			t.Errorf("GetOrLoad() leader: %v", err)
		}
	}()

	<-started
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.GetOrLoad(context.Background(), "k", time.Minute, load)
			if err != nil {
				t.Errorf("GetOrLoad() follower: %v", err)
			}
			if v != "shared" {
				t.Errorf("GetOrLoad() follower = %v, want shared", v)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStorePurgeExpired(t *testing.T) {
	t.Parallel()

	s := NewStore()
	current := time.Unix(5000, 0)
	s.now = func() time.Time { return current }

	s.Set("a", 1, 10*time.Second)
	s.Set("b", 2, time.Hour)

	current = current.Add(time.Minute)

	if got := s.PurgeExpired(); got != 1 {
		t.Fatalf("PurgeExpired() = %d, want 1", got)
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatalf("Get(b) miss after purge, want hit")
	}
}
