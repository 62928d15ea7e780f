package future

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// All waiters observe the published result, regardless of when they
// started waiting.
func TestFuture_ManyWaiters(t *testing.T) {
	t.Parallel()

	f := New[int]()
	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, err := f.Wait(context.Background())
			if err != nil || v != 7 {
				t.Errorf("waiter got %d, %v", v, err)
			}
		}()
	}
	f.Complete(7, nil)
	wg.Wait()

	// Late waiters see the same result.
	if v, _ := f.Wait(context.Background()); v != 7 {
		t.Fatalf("late waiter got %d", v)
	}
}

// Only the first Complete wins.
func TestFuture_CompleteOnce(t *testing.T) {
	t.Parallel()

	f := New[string]()
	f.Complete("first", nil)
	f.Complete("second", errors.New("late"))
	if v, err := f.Wait(context.Background()); v != "first" || err != nil {
		t.Fatalf("got %q, %v", v, err)
	}
}

// Cancelling a waiter's context unblocks only that waiter.
func TestFuture_WaitCancellation(t *testing.T) {
	t.Parallel()

	f := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}

	if _, _, ok := f.TryGet(); ok {
		t.Fatal("TryGet before Complete must report not ready")
	}
	f.Complete(1, nil)
	if v, err, ok := f.TryGet(); !ok || err != nil || v != 1 {
		t.Fatalf("TryGet after Complete: %d %v %v", v, err, ok)
	}
}
