package slotlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryLockerExclusive(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	key := Key("b1", time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	release, ok, err := l.Acquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}

	if _, ok, _ := l.Acquire(ctx, key, time.Minute); ok {
		t.Fatal("second Acquire() succeeded while held")
	}

	release()

	if _, ok, _ := l.Acquire(ctx, key, time.Minute); !ok {
		t.Fatal("Acquire() after release failed")
	}
}

func TestMemoryLockerExpiry(t *testing.T) {
	l := NewMemoryLocker()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	staleRelease, ok, _ := l.Acquire(context.Background(), "k", 30*time.Second)
	if !ok {
		t.Fatal("Acquire() failed")
	}

	now = now.Add(31 * time.Second)
	if _, ok, _ := l.Acquire(context.Background(), "k", 30*time.Second); !ok {
		t.Fatal("expired hold was not reclaimed")
	}

	// the stale holder must not drop the new hold
	staleRelease()
	if _, ok, _ := l.Acquire(context.Background(), "k", 30*time.Second); ok {
		t.Fatal("stale release removed the current hold")
	}
}

func TestMemoryLockerConcurrent(t *testing.T) {
	l := NewMemoryLocker()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := l.Acquire(context.Background(), "same", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d goroutines acquired the hold, want 1", wins.Load())
	}
}
