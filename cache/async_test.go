package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Whatever order callers arrive in, one in-flight computation is shared:
// the loader runs once and everyone observes its result.
func TestAsync_StampedeAvoidance(t *testing.T) {
	var calls int64
	started := make(chan struct{})
	release := make(chan struct{})

	c := NewAsyncLoading(Options[string, string]{},
		LoaderFunc[string, string](func(_ context.Context, k string) (string, error) {
			if atomic.AddInt64(&calls, 1) == 1 {
				close(started)
			}
			<-release
			return "v:" + k, nil
		}))

	const N = 50
	results := make(chan string, N)
	var wg sync.WaitGroup

	// First caller starts the load; the rest arrive while it is in flight.
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, _ := c.Get(context.Background(), "k")
		results <- v
	}()
	<-started
	for i := 1; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := c.Get(context.Background(), "k")
			results <- v
		}()
	}
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		if v != "v:k" {
			t.Fatalf("caller observed %q", v)
		}
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("loader ran %d times", got)
	}
}

// A waiter's cancellation abandons only that waiter; the shared load
// completes for the others.
func TestAsync_WaiterCancellation(t *testing.T) {
	release := make(chan struct{})
	c := NewAsyncLoading(Options[string, string]{},
		LoaderFunc[string, string](func(context.Context, string) (string, error) {
			<-release
			return "done", nil
		}))

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k")
		errs <- err
	}()
	cancel()
	if err := <-errs; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled waiter err = %v", err)
	}

	close(release)
	v, err := c.Get(context.Background(), "k")
	if err != nil || v != "done" {
		t.Fatalf("surviving load: v=%q err=%v", v, err)
	}
}

// A failed computation is evicted so the next call retries, and the
// failure wraps as *LoadError.
func TestAsync_FailedFutureRetries(t *testing.T) {
	var calls int64
	boom := errors.New("transient")
	c := NewAsyncLoading(Options[string, string]{},
		LoaderFunc[string, string](func(_ context.Context, k string) (string, error) {
			if atomic.AddInt64(&calls, 1) == 1 {
				return "", boom
			}
			return "ok", nil
		}))

	_, err := c.Get(context.Background(), "k")
	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	// The failed handle must not be served again.
	deadline := time.After(time.Second)
	for c.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("failed future was not removed")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	v, err := c.Get(context.Background(), "k")
	if err != nil || v != "ok" {
		t.Fatalf("retry: v=%q err=%v", v, err)
	}
	if calls != 2 {
		t.Fatalf("loader calls = %d", calls)
	}
}

// GetIfPresent reports only completed successful computations, and the
// removal listener sees unwrapped values.
func TestAsync_PresenceAndNotifications(t *testing.T) {
	rec := &recorder[string, string]{}
	c := NewAsyncLoading(Options[string, string]{
		OnRemoval: rec.onRemoval,
		Executor:  inlineExec,
	}, LoaderFunc[string, string](func(_ context.Context, k string) (string, error) {
		return "loaded", nil
	}))

	if _, ok := c.GetIfPresent("k"); ok {
		t.Fatal("absent key must miss")
	}
	if _, err := c.Get(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.GetIfPresent("k"); !ok || v != "loaded" {
		t.Fatalf("completed value: %q ok=%v", v, ok)
	}

	c.Put("k", "manual")
	c.Remove("k")
	events := rec.all()
	if len(events) != 2 {
		t.Fatalf("events: %+v", events)
	}
	if events[0].value != "loaded" || events[0].cause != CauseReplaced {
		t.Fatalf("replace event: %+v", events[0])
	}
	if events[1].value != "manual" || events[1].cause != CauseExplicit {
		t.Fatalf("remove event: %+v", events[1])
	}
}

// Async caches refuse a write-through sink.
func TestAsync_RejectsWriter(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewAsyncLoading(Options[string, string]{
		Writer: WriterFuncs[string, string]{},
	}, LoaderFunc[string, string](func(context.Context, string) (string, error) { return "", nil }))
}
