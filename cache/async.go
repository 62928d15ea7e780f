package cache

import (
	"context"
	"time"

	"github.com/abelyaev/localcache/internal/future"
)

// AsyncLoadingCache stores a pending-computation handle as the mapped
// value instead of a final value: concurrent callers missing on the same
// key observe and await the same in-flight load rather than issuing
// duplicates, whatever order they arrive in. A failed load removes its
// handle so a later call retries.
type AsyncLoadingCache[K comparable, V comparable] struct {
	cache  *Cache[K, *future.Future[V]]
	loader Loader[K, V]
}

// NewAsyncLoading constructs an asynchronously loading cache. Panics when
// loader is nil or a Writer is configured: write-through of in-flight
// computations is not meaningful.
func NewAsyncLoading[K comparable, V comparable](opt Options[K, V], loader Loader[K, V]) *AsyncLoadingCache[K, V] {
	if loader == nil {
		panic("localcache: nil Loader")
	}
	if opt.Writer != nil {
		panic("localcache: Writer cannot be combined with an async cache")
	}
	inner := Options[K, *future.Future[V]]{
		Shards:      opt.Shards,
		RecordStats: opt.RecordStats,
		Executor:    opt.Executor,
		Clock:       opt.Clock,
		Logger:      opt.Logger,
	}
	if opt.OnRemoval != nil {
		outer := opt.OnRemoval
		// Unwrap completed futures; discarded in-flight or failed
		// computations are not entries and emit nothing.
		inner.OnRemoval = func(key K, f *future.Future[V], cause RemovalCause) {
			if v, err, ok := f.TryGet(); ok && err == nil {
				outer(key, v, cause)
			}
		}
	}
	return &AsyncLoadingCache[K, V]{cache: New(inner), loader: loader}
}

// Get returns key's value, starting one shared load on miss and awaiting
// it. Cancelling ctx abandons only this caller's wait; the load keeps
// running for the other waiters.
func (c *AsyncLoadingCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	f, err := c.cache.getOrCompute(key, func(k K) (*future.Future[V], error) {
		fut := future.New[V]()
		start := c.cache.now()
		c.cache.stats.RecordMisses(1)
		loadCtx := context.WithoutCancel(ctx)
		go func() {
			v, lerr := c.loader.Load(loadCtx, k)
			elapsed := time.Duration(c.cache.now() - start)
			if lerr != nil {
				c.cache.stats.RecordLoadError(elapsed)
				fut.Complete(v, &LoadError{Key: k, Err: lerr})
				// Drop the failed handle so the next Get retries.
				c.cache.CompareAndDelete(k, fut)
				return
			}
			c.cache.stats.RecordLoadSuccess(elapsed)
			fut.Complete(v, nil)
		}()
		return fut, nil
	}, false)
	if err != nil {
		var zero V
		return zero, err
	}
	return f.Wait(ctx)
}

// GetIfPresent returns key's value when its computation has completed
// successfully, recording one hit or miss.
func (c *AsyncLoadingCache[K, V]) GetIfPresent(key K) (V, bool) {
	f, ok := c.cache.GetIfPresent(key)
	if !ok {
		var zero V
		return zero, false
	}
	v, err, done := f.TryGet()
	if !done || err != nil {
		var zero V
		return zero, false
	}
	return v, true
}

// Put associates key with an already-completed value.
func (c *AsyncLoadingCache[K, V]) Put(key K, value V) {
	fut := future.New[V]()
	fut.Complete(value, nil)
	c.cache.Put(key, fut) //nolint:errcheck // no writer on async caches
}

// Remove deletes key's mapping, in flight or not.
func (c *AsyncLoadingCache[K, V]) Remove(key K) bool {
	_, ok, _ := c.cache.Remove(key)
	return ok
}

// Len returns the number of entries, including in-flight computations.
func (c *AsyncLoadingCache[K, V]) Len() int { return c.cache.Len() }

// Stats returns a snapshot of the accumulated statistics.
func (c *AsyncLoadingCache[K, V]) Stats() Stats { return c.cache.Stats() }

// Policy describes the engine's capabilities.
func (c *AsyncLoadingCache[K, V]) Policy() Policy { return c.cache.Policy() }
