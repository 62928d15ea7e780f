package cache

import (
	"sync"

	"github.com/abelyaev/localcache/internal/util"
)

// store is a striped-lock concurrent map with atomic per-key compute.
// Each shard owns an independent mutex and map, so mutations on
// different keys rarely contend and there is no global bottleneck.
type store[K comparable, V comparable] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
}

type shard[K comparable, V comparable] struct {
	mu sync.RWMutex
	m  map[K]V
}

// mutation describes the outcome of one atomic operation against a shard:
// the mapping before the call and the mapping after it. Callers derive
// removal causes and notification payloads from it instead of smuggling
// state out of the compute closure.
type mutation[V comparable] struct {
	old     V    // value before the call (zero when !had)
	had     bool // a mapping existed before the call
	val     V    // value after the call (zero when !present)
	present bool // a mapping exists after the call
}

func newStore[K comparable, V comparable](shards int) *store[K, V] {
	if shards <= 0 {
		shards = util.ReasonableShardCount()
	} else {
		shards = int(util.NextPow2(uint64(shards)))
	}
	ss := make([]*shard[K, V], shards)
	for i := range ss {
		ss[i] = &shard[K, V]{m: make(map[K]V)}
	}
	return &store[K, V]{shards: ss, hash: util.Hash64[K]}
}

func (s *store[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[util.ShardIndex(s.hash(key), len(s.shards))]
}

// get returns the current mapping without taking the write lock.
func (s *store[K, V]) get(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	v, ok := sh.m[key]
	sh.mu.RUnlock()
	return v, ok
}

// compute runs fn for key inside the key's critical section. fn receives
// the current value (zero when absent) and returns the new value, whether
// a mapping should remain, and an error. A non-nil error aborts the
// mutation: the mapping is left exactly as before and the error is
// returned to the caller.
//
// fn must be nonblocking and must not operate on this store; taking the
// same shard lock again deadlocks.
func (s *store[K, V]) compute(key K, fn func(old V, present bool) (V, bool, error)) (mutation[V], error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	old, had := sh.m[key]
	val, keep, err := fn(old, had)
	if err != nil {
		return mutation[V]{old: old, had: had, val: old, present: had}, err
	}
	if keep {
		sh.m[key] = val
	} else {
		if had {
			delete(sh.m, key)
		}
		var zero V
		val = zero
	}
	return mutation[V]{old: old, had: had, val: val, present: keep}, nil
}

// len returns the total number of resident entries across all shards.
func (s *store[K, V]) len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.m)
		sh.mu.RUnlock()
	}
	return total
}

// clear discards all entries without per-key bookkeeping.
func (s *store[K, V]) clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.m = make(map[K]V)
		sh.mu.Unlock()
	}
}

// keys returns a point-in-time snapshot of all resident keys.
func (s *store[K, V]) keys() []K {
	out := make([]K, 0, s.len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k := range sh.m {
			out = append(out, k)
		}
		sh.mu.RUnlock()
	}
	return out
}

// iterator returns a weakly consistent cursor over the store. It copies
// one shard at a time under that shard's read lock, so concurrent
// mutations may or may not be observed, but never a torn element.
// The cursor itself is not safe for concurrent use.
func (s *store[K, V]) iterator() *storeIter[K, V] {
	return &storeIter[K, V]{store: s, shard: -1}
}

type storeIter[K comparable, V comparable] struct {
	store *store[K, V]
	shard int
	buf   []Entry[K, V]
	pos   int
}

// next advances to the next element, refilling the buffer from the next
// shard when the current one is exhausted.
func (it *storeIter[K, V]) next() (Entry[K, V], bool) {
	for it.pos >= len(it.buf) {
		it.shard++
		if it.shard >= len(it.store.shards) {
			return Entry[K, V]{}, false
		}
		sh := it.store.shards[it.shard]
		sh.mu.RLock()
		it.buf = it.buf[:0]
		for k, v := range sh.m {
			it.buf = append(it.buf, Entry[K, V]{Key: k, Value: v})
		}
		sh.mu.RUnlock()
		it.pos = 0
	}
	e := it.buf[it.pos]
	it.pos++
	return e, true
}
