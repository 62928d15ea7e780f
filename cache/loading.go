package cache

import (
	"context"
	"fmt"
	"time"
)

// Loader fetches a value for a key on cache miss. Load latency is the
// caller's responsibility: the engine applies no timeout of its own, so
// a slow loader stalls its Get until ctx says otherwise.
type Loader[K comparable, V any] interface {
	Load(ctx context.Context, key K) (V, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, error) { return f(ctx, key) }

// BulkLoader is an optional Loader extension for batched retrieval. A
// loader that implements it is used by GetAll to fetch all missing keys
// in one call. It may return mappings for keys it was not asked for;
// those are cached too.
type BulkLoader[K comparable, V any] interface {
	Loader[K, V]
	LoadAll(ctx context.Context, keys []K) (map[K]V, error)
}

// LoadError wraps a loader failure so callers can tell a failed
// computation apart from other errors. The underlying cause is available
// via errors.Unwrap / errors.Is, so context cancellation during a load is
// preserved rather than swallowed. Key is nil for bulk-load failures.
type LoadError struct {
	Key any
	Err error
}

func (e *LoadError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("localcache: bulk load failed: %v", e.Err)
	}
	return fmt.Sprintf("localcache: load for key %v failed: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadingCache composes a Cache with a Loader invoked on miss inside the
// key's critical section, so concurrent misses on one key trigger exactly
// one load.
type LoadingCache[K comparable, V comparable] struct {
	*Cache[K, V]
	loader Loader[K, V]
	bulk   BulkLoader[K, V] // nil when the loader has no bulk path
}

// NewLoading constructs a loading cache. Panics when loader is nil.
func NewLoading[K comparable, V comparable](opt Options[K, V], loader Loader[K, V]) *LoadingCache[K, V] {
	if loader == nil {
		panic("localcache: nil Loader")
	}
	bulk, _ := loader.(BulkLoader[K, V])
	return &LoadingCache[K, V]{Cache: New(opt), loader: loader, bulk: bulk}
}

// HasBulkLoader reports whether GetAll uses a single batched load.
func (c *LoadingCache[K, V]) HasBulkLoader() bool { return c.bulk != nil }

// Get returns key's value, loading it on miss. A loader failure surfaces
// as *LoadError and leaves no entry behind.
func (c *LoadingCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	return c.getOrCompute(key, func(k K) (V, error) {
		v, err := c.loader.Load(ctx, k)
		if err != nil {
			var zero V
			return zero, &LoadError{Key: k, Err: err}
		}
		return v, nil
	}, true)
}

// GetAll returns the values for keys, loading the missing ones. With a
// BulkLoader all misses go through one LoadAll call; otherwise each miss
// loads individually. Loaded entries are stored without invoking the
// Writer, and hit/miss counts are recorded as batched totals.
func (c *LoadingCache[K, V]) GetAll(ctx context.Context, keys []K) (map[K]V, error) {
	result := make(map[K]V, len(keys))
	var missing []K
	for _, key := range keys {
		if _, dup := result[key]; dup {
			continue
		}
		if v, ok := c.store.get(key); ok {
			result[key] = v
		} else {
			missing = append(missing, key)
		}
	}
	c.stats.RecordHits(len(result))

	if len(missing) == 0 {
		return result, nil
	}
	if c.bulk == nil {
		for _, key := range missing {
			v, err := c.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			result[key] = v
		}
		return result, nil
	}

	c.stats.RecordMisses(len(missing))
	start := c.now()
	loaded, err := c.bulk.LoadAll(ctx, missing)
	elapsed := time.Duration(c.now() - start)
	if err != nil {
		c.stats.RecordLoadError(elapsed)
		return nil, &LoadError{Err: err}
	}
	c.stats.RecordLoadSuccess(elapsed)

	// Cache every returned mapping; loads are not writer-visible events.
	for k, v := range loaded {
		if _, _, perr := c.put(k, v, false); perr != nil {
			return nil, perr
		}
	}
	for _, key := range missing {
		if v, ok := loaded[key]; ok {
			result[key] = v
		}
	}
	return result, nil
}
