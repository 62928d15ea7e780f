package cache

import "time"

// Entry is a key/value pair exported from the cache.
type Entry[K comparable, V comparable] struct {
	Key   K
	Value V
}

// Cache is a concurrent key/value mapping with synchronous write-through,
// asynchronous removal notification and hit/miss instrumentation. All
// methods are safe for unsynchronized concurrent use by any number of
// goroutines.
//
// Every mutating method is atomic per key: the check-old/decide/write-new
// sequence runs inside that key's critical section of the backing store.
// When a Writer is configured it is invoked inside that section, before
// the change becomes visible, so a rejected write aborts the mutation with
// no visible side effect. Removal notifications are captured inside the
// section but dispatched strictly after commit, on the configured
// Executor, so listener code never blocks a mutator.
//
// Values are compared with ==: a remap that stores an equal value is a
// no-op for both the Writer and the notification sink. Use pointer values
// when identity semantics are wanted.
type Cache[K comparable, V comparable] struct {
	store     *store[K, V]
	stats     StatsCounter
	writer    Writer[K, V] // nil = write-through disabled
	onRemoval func(key K, value V, cause RemovalCause)
	execute   Executor
	logger    Logger
	now       func() int64
	recording bool

	views viewCache[K, V]
}

// New constructs an empty cache with the provided Options.
func New[K comparable, V comparable](opt Options[K, V]) *Cache[K, V] {
	stats := StatsCounter(disabledStats{})
	if opt.RecordStats {
		if opt.StatsCounter != nil {
			stats = opt.StatsCounter
		} else {
			stats = NewCounter()
		}
	}
	execute := opt.Executor
	if execute == nil {
		execute = func(task func()) { go task() }
	}
	logger := opt.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return &Cache[K, V]{
		store:     newStore[K, V](opt.Shards),
		stats:     stats,
		writer:    opt.Writer,
		onRemoval: opt.OnRemoval,
		execute:   execute,
		logger:    logger,
		now:       opt.clockNow(),
		recording: opt.RecordStats,
	}
}

/* ---------------- lookups ---------------- */

// GetIfPresent returns the value mapped to key, recording one hit or one
// miss. It never mutates the cache.
func (c *Cache[K, V]) GetIfPresent(key K) (V, bool) {
	return c.getIfPresent(key, true)
}

func (c *Cache[K, V]) getIfPresent(key K, recordStats bool) (V, bool) {
	v, ok := c.store.get(key)
	if recordStats {
		if ok {
			c.stats.RecordHits(1)
		} else {
			c.stats.RecordMisses(1)
		}
	}
	return v, ok
}

// Contains reports whether key has a mapping, without touching statistics.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.store.get(key)
	return ok
}

// GetAllPresent returns the entries found for keys, in discovery order.
// Hit and miss counts are recorded as batched totals for the whole call.
func (c *Cache[K, V]) GetAllPresent(keys []K) []Entry[K, V] {
	hits, misses := 0, 0
	out := make([]Entry[K, V], 0, len(keys))
	for _, key := range keys {
		if v, ok := c.store.get(key); ok {
			hits++
			out = append(out, Entry[K, V]{Key: key, Value: v})
		} else {
			misses++
		}
	}
	c.stats.RecordHits(hits)
	c.stats.RecordMisses(misses)
	return out
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.store.len() }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.store.len() == 0 }

// Range calls fn for each entry until fn returns false. Iteration is
// weakly consistent: concurrent updates may or may not be observed, but
// never a torn entry. fn runs outside the store's locks and may call back
// into the cache.
func (c *Cache[K, V]) Range(fn func(key K, value V) bool) {
	it := c.store.iterator()
	for e, ok := it.next(); ok; e, ok = it.next() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

/* ---------------- writes ---------------- */

// Put maps key to value and returns the previous value, if any. The
// Writer, when configured, observes the write before it commits; a Writer
// error aborts the mutation and is returned with the map unchanged.
func (c *Cache[K, V]) Put(key K, value V) (prev V, replaced bool, err error) {
	return c.put(key, value, true)
}

func (c *Cache[K, V]) put(key K, value V, notifyWriter bool) (V, bool, error) {
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if notifyWriter && c.writer != nil && (!present || old != value) {
			if werr := c.writer.Write(key, value); werr != nil {
				return old, present, werr
			}
		}
		return value, true, nil
	})
	if err != nil {
		return m.old, m.had, err
	}
	c.afterCompute(key, m)
	return m.old, m.had, nil
}

// PutAll maps every entry of kvs. With no listener and no Writer the
// entries are stored directly; otherwise each entry goes through Put to
// preserve per-entry semantics. The first Writer error stops the loop.
func (c *Cache[K, V]) PutAll(kvs map[K]V) error {
	if c.onRemoval == nil && c.writer == nil {
		for k, v := range kvs {
			c.store.compute(k, func(V, bool) (V, bool, error) { return v, true, nil })
		}
		return nil
	}
	for k, v := range kvs {
		if _, _, err := c.Put(k, v); err != nil {
			return err
		}
	}
	return nil
}

// PutIfAbsent maps key to value only when no mapping exists. It returns
// the existing value when there is one (stored=false); the Writer fires
// only on the inserting branch.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) (existing V, stored bool, err error) {
	// optimistic uncontended read first; compute locks even on hits
	if v, ok := c.store.get(key); ok {
		return v, false, nil
	}
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if present {
			return old, true, nil
		}
		if c.writer != nil {
			if werr := c.writer.Write(key, value); werr != nil {
				return old, false, werr
			}
		}
		return value, true, nil
	})
	if err != nil {
		return existing, false, err
	}
	if m.had {
		return m.old, false, nil
	}
	return existing, true, nil
}

// Remove deletes key's mapping and returns the removed value. The
// Writer's Delete hook fires exactly when an entry is removed; one
// explicit removal notification is emitted after commit.
func (c *Cache[K, V]) Remove(key K) (V, bool, error) {
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if !present {
			return old, false, nil
		}
		if c.writer != nil {
			if werr := c.writer.Delete(key, old, CauseExplicit); werr != nil {
				return old, true, werr
			}
		}
		return old, false, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.afterCompute(key, m)
	return m.old, m.had, nil
}

// CompareAndDelete deletes key only when it currently maps to value.
func (c *Cache[K, V]) CompareAndDelete(key K, value V) (bool, error) {
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if !present || old != value {
			return old, present, nil
		}
		if c.writer != nil {
			if werr := c.writer.Delete(key, old, CauseExplicit); werr != nil {
				return old, true, werr
			}
		}
		return old, false, nil
	})
	if err != nil {
		return false, err
	}
	c.afterCompute(key, m)
	return m.had && !m.present, nil
}

// Replace maps key to value only when a mapping already exists, returning
// the previous value.
func (c *Cache[K, V]) Replace(key K, value V) (V, bool, error) {
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if !present {
			return old, false, nil
		}
		if c.writer != nil && old != value {
			if werr := c.writer.Write(key, value); werr != nil {
				return old, true, werr
			}
		}
		return value, true, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.afterCompute(key, m)
	return m.old, m.had, nil
}

// CompareAndSwap replaces key's value with newValue only when it currently
// maps to oldValue.
func (c *Cache[K, V]) CompareAndSwap(key K, oldValue, newValue V) (bool, error) {
	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if !present || old != oldValue {
			return old, present, nil
		}
		if c.writer != nil && old != newValue {
			if werr := c.writer.Write(key, newValue); werr != nil {
				return old, true, werr
			}
		}
		return newValue, true, nil
	})
	if err != nil {
		return false, err
	}
	c.afterCompute(key, m)
	return m.had && m.old == oldValue, nil
}

// Clear removes every entry. With no listener and no Writer the backing
// store is discarded wholesale; otherwise entries are removed one by one
// so each gets its Writer call and its explicit removal notification.
func (c *Cache[K, V]) Clear() error {
	if c.onRemoval == nil && c.writer == nil {
		c.store.clear()
		return nil
	}
	for _, key := range c.store.keys() {
		if _, _, err := c.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

/* ---------------- atomic remaps ---------------- */

// Compute atomically remaps key. remap receives the current value (zero,
// false when absent) and returns the new value and whether a mapping
// should remain. An absent-to-absent result is a pure no-op. Compute does
// not invoke the Writer; remaps are not writer-visible events.
//
// remap runs inside the key's critical section: it must be nonblocking
// and must not call back into this cache.
func (c *Cache[K, V]) Compute(key K, remap func(old V, present bool) (V, bool)) (V, bool) {
	m, _ := c.store.compute(key, c.statsAware(remap))
	c.afterCompute(key, m)
	return m.val, m.present
}

// ComputeIfPresent remaps key only when a mapping exists. Returning
// keep=false deletes the entry.
func (c *Cache[K, V]) ComputeIfPresent(key K, remap func(key K, old V) (V, bool)) (V, bool) {
	// optimistic uncontended read first; compute locks even on misses
	if !c.Contains(key) {
		var zero V
		return zero, false
	}
	return c.Compute(key, func(old V, present bool) (V, bool) {
		if !present {
			return old, false
		}
		return remap(key, old)
	})
}

// Merge maps key to value when absent, otherwise to remap(old, value).
// Returning keep=false deletes the entry.
func (c *Cache[K, V]) Merge(key K, value V, remap func(old, given V) (V, bool)) (V, bool) {
	return c.Compute(key, func(old V, present bool) (V, bool) {
		if !present {
			return value, true
		}
		return remap(old, value)
	})
}

// ReplaceAll remaps every entry through fn, invoking the Writer for each
// value that actually changes. The first Writer error stops the sweep
// with earlier replacements already committed.
func (c *Cache[K, V]) ReplaceAll(fn func(key K, value V) V) error {
	for _, key := range c.store.keys() {
		m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
			if !present {
				return old, false, nil
			}
			next := fn(key, old)
			if c.writer != nil && next != old {
				if werr := c.writer.Write(key, next); werr != nil {
					return old, true, werr
				}
			}
			return next, true, nil
		})
		if err != nil {
			return err
		}
		c.afterCompute(key, m)
	}
	return nil
}

// Get returns key's value, computing and storing it via compute on a
// miss. The computation runs inside the key's critical section, so
// concurrent callers missing on the same key wait for one computation
// instead of racing their own. A compute error leaves no entry and is
// returned as-is. The Writer is never invoked; loads are not
// writer-visible events.
func (c *Cache[K, V]) Get(key K, compute func(key K) (V, error)) (V, error) {
	return c.getOrCompute(key, compute, true)
}

// getOrCompute is the computeIfAbsent primitive. Only the branch that
// actually ran compute is attributed as a miss; every other outcome is a
// hit. recordLoad times the computation into the load statistics; the
// async facade passes false and records at future completion instead.
func (c *Cache[K, V]) getOrCompute(key K, compute func(key K) (V, error), recordLoad bool) (V, error) {
	// optimistic uncontended read first; compute locks even on hits
	if v, ok := c.store.get(key); ok {
		c.stats.RecordHits(1)
		return v, nil
	}

	m, err := c.store.compute(key, func(old V, present bool) (V, bool, error) {
		if present {
			return old, true, nil
		}
		start := c.now()
		v, cerr := compute(key)
		elapsed := time.Duration(c.now() - start)
		if cerr != nil {
			if recordLoad {
				c.stats.RecordMisses(1)
				c.stats.RecordLoadError(elapsed)
			}
			return old, false, cerr
		}
		if recordLoad {
			c.stats.RecordMisses(1)
			c.stats.RecordLoadSuccess(elapsed)
		}
		return v, true, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	if m.had {
		c.stats.RecordHits(1)
	}
	return m.val, nil
}

// statsAware wraps a remap with load accounting: a kept result counts as
// a load success, a removal as a load error, matching the granularity of
// the loading path. Panics still record before propagating.
func (c *Cache[K, V]) statsAware(remap func(old V, present bool) (V, bool)) func(V, bool) (V, bool, error) {
	if !c.recording {
		return func(old V, present bool) (V, bool, error) {
			v, keep := remap(old, present)
			return v, keep, nil
		}
	}
	return func(old V, present bool) (v V, keep bool, err error) {
		start := c.now()
		defer func() {
			elapsed := time.Duration(c.now() - start)
			if r := recover(); r != nil {
				c.stats.RecordLoadError(elapsed)
				panic(r)
			}
			if keep {
				c.stats.RecordLoadSuccess(elapsed)
			} else if present {
				c.stats.RecordLoadError(elapsed)
			}
		}()
		v, keep = remap(old, present)
		return v, keep, nil
	}
}

/* ---------------- accessors ---------------- */

// Stats returns a snapshot of the accumulated statistics. All zeroes when
// RecordStats is off.
func (c *Cache[K, V]) Stats() Stats { return c.stats.Snapshot() }

// Policy describes this engine's capabilities.
func (c *Cache[K, V]) Policy() Policy { return Policy{recordingStats: c.recording} }
