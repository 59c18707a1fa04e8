package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var (
		g       SingleFlight
		calls   atomic.Int32
		release = make(chan struct{})
		started = make(chan struct{})
	)

	var wg sync.WaitGroup
	results := make([]any, 5)
	shared := make([]bool, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err, sh := g.Do("key", func() (any, error) {
			calls.Add(1)
			close(started)
			<-release
			return "value", nil
		})
		if err != nil {
			t.Errorf("Do() leader: %v", err)
		}
		results[0] = v
		shared[0] = sh
	}()

	<-started
	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err, sh := g.Do("key", func() (any, error) {
				calls.Add(1)
				return "value", nil
			})
			if err != nil {
				t.Errorf("Do() follower: %v", err)
			}
			results[i] = v
			shared[i] = sh
		}(i)
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
	for i, v := range results {
		if v != "value" {
			t.Fatalf("results[%d] = %v, want value", i, v)
		}
	}
	if shared[0] {
		t.Fatalf("leader reported shared result")
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight

	a, err, _ := g.Do("a", func() (any, error) { return 1, nil })
	if err != nil || a != 1 {
		t.Fatalf("Do(a) = %v, %v", a, err)
	}
	b, err, _ := g.Do("b", func() (any, error) { return 2, nil })
	if err != nil || b != 2 {
		t.Fatalf("Do(b) = %v, %v", b, err)
	}
}

func TestSingleFlightKeyReusableAfterCompletion(t *testing.T) {
	t.Parallel()

	var (
		g     SingleFlight
		calls atomic.Int32
	)

	for i := 0; i < 3; i++ {
		if _, err, _ := g.Do("key", func() (any, error) {
			calls.Add(1)
			return nil, nil
		}); err != nil {
			t.Fatalf("Do() round %d: %v", i, err)
		}
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("fn executed %d times, want 3", got)
	}
}
