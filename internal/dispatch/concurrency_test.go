package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestCallsNeverInterleave verifies that the mutation lock gives at-most-one
// concurrent dispatch per signal: no two calls' slot executions overlap.
func TestCallsNeverInterleave(t *testing.T) {
	s := New()

	var inFlight atomic.Int32
	var overlaps atomic.Int32

	for i := 0; i < 3; i++ {
		mustAdd(t, s, i, func(sender any, args ...any) (any, error) {
			if inFlight.Add(1) > 1 {
				overlaps.Add(1)
			}
			inFlight.Add(-1)
			return nil, nil
		})
	}

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				if _, err := s.Call("sender"); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent calls failed: %v", err)
	}

	if overlaps.Load() != 0 {
		t.Errorf("Detected %d interleaved slot executions", overlaps.Load())
	}

	stats := s.Stats()
	if stats.Calls != 16*50 {
		t.Errorf("Calls = %d, want %d", stats.Calls, 16*50)
	}
}

// TestConcurrentRegistration hammers Add/Delete/Call from many goroutines;
// run with -race.
func TestConcurrentRegistration(t *testing.T) {
	s := New()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				slot, err := s.Add(j, nopCallback)
				if err != nil {
					return err
				}
				if _, err := s.Call("sender"); err != nil {
					return err
				}
				if err := s.Delete(slot); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent registration failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after balanced add/delete, want 0", s.Len())
	}
}

// TestConcurrentUIDAllocation verifies uid uniqueness under registration
// contention.
func TestConcurrentUIDAllocation(t *testing.T) {
	s := New()

	const workers = 8
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[uint64]struct{}, workers*perWorker)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < perWorker; j++ {
				slot, err := s.Add(0, nopCallback)
				if err != nil {
					return err
				}
				mu.Lock()
				seen[slot.UID()] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent add failed: %v", err)
	}

	if len(seen) != workers*perWorker {
		t.Errorf("UID collision: %d unique uids for %d slots", len(seen), workers*perWorker)
	}
}

// TestConcurrentRegistryGet verifies the lookup-or-create is atomic: every
// goroutine resolves the same canonical instance.
func TestConcurrentRegistryGet(t *testing.T) {
	r := NewWeakRegistry()

	var g errgroup.Group
	results := make([]*Signal, 16)
	for i := range results {
		g.Go(func() error {
			results[i] = r.Get("contended")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent Get failed: %v", err)
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("Concurrent constructions resolved different instances")
		}
	}
}

// TestIndependentSignalsDispatchConcurrently gives two signals a slot that
// waits for its sibling, which only completes if their dispatches are not
// serialized against each other.
func TestIndependentSignalsDispatchConcurrently(t *testing.T) {
	a := New()
	b := New()

	started := make(chan struct{}, 2)
	release := make(chan struct{})

	rendezvous := func(sender any, args ...any) (any, error) {
		started <- struct{}{}
		<-release
		return nil, nil
	}
	mustAdd(t, a, 0, rendezvous)
	mustAdd(t, b, 0, rendezvous)

	var g errgroup.Group
	g.Go(func() error { _, err := a.Call("sender"); return err })
	g.Go(func() error { _, err := b.Call("sender"); return err })

	// Both dispatches must be in flight before either is released.
	<-started
	<-started
	close(release)

	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent dispatch failed: %v", err)
	}
}
