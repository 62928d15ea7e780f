// Package cache provides a generic, striped-lock, in-memory key/value
// mapping with the consistency guarantees a caching layer needs:
// synchronous write-through to a backing system of record, asynchronous
// removal/replacement notifications, and hit/miss instrumentation.
//
// Design
//
//   - Concurrency: the backing store is split into shards, each protected
//     by an RWMutex. The default shard count is chosen by a heuristic
//     (≈ 2*GOMAXPROCS, power of two). Every mutation runs its
//     check-old/decide/write-new sequence inside one shard lock, so per-key
//     operations are atomic without a global bottleneck.
//
//   - Write-through: an optional Writer observes inserts, replacements and
//     removals inside the key's critical section, before the change is
//     visible. A Writer error aborts the mutation with zero visible side
//     effects and surfaces synchronously to the caller.
//
//   - Notifications: an optional OnRemoval callback receives one
//     (key, old value, cause) event per value-changing mutation, dispatched
//     after commit on a configurable Executor, never on the mutating
//     goroutine's stack. Storing an equal value emits nothing.
//
//   - Loading: LoadingCache invokes a Loader on miss inside the key's
//     critical section, so N concurrent misses on one key run exactly one
//     load. AsyncLoadingCache maps keys to in-flight computation handles
//     instead, sharing loads without holding any lock during them.
//
//   - Stats: hit/miss and load-outcome counters accumulate lock-free;
//     Stats() returns an immutable snapshot. Plug the metrics/prom adapter
//     to export them.
//
//   - No bounding: this engine does not evict, expire or refresh; Policy()
//     reports those capabilities as absent. Bounded engines share the same
//     mutation contract.
//
// Basic usage
//
//	c := cache.New[string, int](cache.Options[string, int]{RecordStats: true})
//	c.Put("a", 1)
//	if v, ok := c.GetIfPresent("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
//
// With write-through and notifications
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Writer: myWriter, // e.g. writer/redis
//	    OnRemoval: func(k, v string, cause cache.RemovalCause) {
//	        log.Printf("%s left the cache (%s)", k, cause)
//	    },
//	})
//
// With loading
//
//	lc := cache.NewLoading(cache.Options[string, string]{},
//	    cache.LoaderFunc[string, string](func(ctx context.Context, k string) (string, error) {
//	        return fetchFromDB(ctx, k)
//	    }))
//	v, err := lc.Get(ctx, "key")
//
// Thread-safety
//
// All methods on Cache and the facades are safe for concurrent use.
// Views and iterators hold only a cursor and must not be shared across
// goroutines, but independent iterators over one cache are safe and
// weakly consistent.
package cache
