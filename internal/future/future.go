// Package future provides a single-assignment result cell shared between
// one producer and any number of waiters.
package future

import (
	"context"
	"sync"
)

// Future holds the eventual result of one computation. The producer calls
// Complete exactly once; waiters block in Wait until then.
//
// Concurrency notes:
//   - Publishing (val, err) happens-before close(done), so reads after
//     <-done observe the final values.
//   - Cancelling ctx in a waiter unblocks only that waiter; it does NOT
//     cancel the producer. If the work itself must be cancellable, thread
//     a context into the producer and handle it there.
type Future[V any] struct {
	done chan struct{} // closed when val/err are published
	once sync.Once
	val  V
	err  error
}

// New returns an incomplete Future.
func New[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Complete publishes the result and wakes all waiters.
// Calls after the first are ignored.
func (f *Future[V]) Complete(val V, err error) {
	f.once.Do(func() {
		f.val, f.err = val, err
		close(f.done)
	})
}

// Wait blocks until the result is published or ctx is cancelled.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// TryGet returns the published result without blocking.
// ok is false while the computation is still in flight.
func (f *Future[V]) TryGet() (val V, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		var zero V
		return zero, nil, false
	}
}

// Done returns a channel closed once the result is published.
func (f *Future[V]) Done() <-chan struct{} { return f.done }
