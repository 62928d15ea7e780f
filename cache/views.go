package cache

import (
	"errors"
	"sync/atomic"
)

// ErrNoElement is returned by iterator Remove/Set calls made before the
// iterator has been advanced to an element.
var ErrNoElement = errors.New("localcache: iterator has no current element")

// viewCache memoizes the lazily constructed view adapters. Views are
// stateless projections, so losing the race and constructing a duplicate
// is benign; the CAS just keeps callers converging on one instance.
type viewCache[K comparable, V comparable] struct {
	keys    atomic.Pointer[KeysView[K, V]]
	values  atomic.Pointer[ValuesView[K, V]]
	entries atomic.Pointer[EntriesView[K, V]]
}

// Keys returns the live key view of the cache.
func (c *Cache[K, V]) Keys() *KeysView[K, V] {
	if v := c.views.keys.Load(); v != nil {
		return v
	}
	c.views.keys.CompareAndSwap(nil, &KeysView[K, V]{cache: c})
	return c.views.keys.Load()
}

// Values returns the live value view of the cache.
func (c *Cache[K, V]) Values() *ValuesView[K, V] {
	if v := c.views.values.Load(); v != nil {
		return v
	}
	c.views.values.CompareAndSwap(nil, &ValuesView[K, V]{cache: c})
	return c.views.values.Load()
}

// Entries returns the live entry view of the cache.
func (c *Cache[K, V]) Entries() *EntriesView[K, V] {
	if v := c.views.entries.Load(); v != nil {
		return v
	}
	c.views.entries.CompareAndSwap(nil, &EntriesView[K, V]{cache: c})
	return c.views.entries.Load()
}

/* ---------------- keys ---------------- */

// KeysView projects the cache's keys. It holds no data of its own: every
// operation delegates to the cache, so removal through the view keeps
// write-through and notification semantics.
type KeysView[K comparable, V comparable] struct {
	cache *Cache[K, V]
}

func (v *KeysView[K, V]) Len() int            { return v.cache.Len() }
func (v *KeysView[K, V]) IsEmpty() bool       { return v.cache.IsEmpty() }
func (v *KeysView[K, V]) Contains(key K) bool { return v.cache.Contains(key) }

// Clear removes all entries through the cache, never the raw store.
func (v *KeysView[K, V]) Clear() error { return v.cache.Clear() }

// Remove deletes key through the cache.
func (v *KeysView[K, V]) Remove(key K) (bool, error) {
	_, ok, err := v.cache.Remove(key)
	return ok, err
}

// Iterator returns a weakly consistent cursor over the keys. The cursor
// is not safe for concurrent use; independent cursors are.
func (v *KeysView[K, V]) Iterator() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{cache: v.cache, it: v.cache.store.iterator()}
}

type KeyIterator[K comparable, V comparable] struct {
	cache   *Cache[K, V]
	it      *storeIter[K, V]
	current K
	valid   bool
}

func (it *KeyIterator[K, V]) Next() bool {
	e, ok := it.it.next()
	it.current, it.valid = e.Key, ok
	return ok
}

// Key returns the element the iterator is positioned on.
func (it *KeyIterator[K, V]) Key() K { return it.current }

// Remove deletes the current element through the cache. Calling it before
// the first Next, or twice for one element, returns ErrNoElement.
func (it *KeyIterator[K, V]) Remove() error {
	if !it.valid {
		return ErrNoElement
	}
	it.valid = false
	_, _, err := it.cache.Remove(it.current)
	return err
}

/* ---------------- values ---------------- */

// ValuesView projects the cache's values.
type ValuesView[K comparable, V comparable] struct {
	cache *Cache[K, V]
}

func (v *ValuesView[K, V]) Len() int      { return v.cache.Len() }
func (v *ValuesView[K, V]) IsEmpty() bool { return v.cache.IsEmpty() }

// Contains reports whether any entry currently holds value. Linear scan.
func (v *ValuesView[K, V]) Contains(value V) bool {
	found := false
	v.cache.Range(func(_ K, cur V) bool {
		if cur == value {
			found = true
			return false
		}
		return true
	})
	return found
}

func (v *ValuesView[K, V]) Clear() error { return v.cache.Clear() }

func (v *ValuesView[K, V]) Iterator() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{cache: v.cache, it: v.cache.store.iterator()}
}

type ValueIterator[K comparable, V comparable] struct {
	cache   *Cache[K, V]
	it      *storeIter[K, V]
	current Entry[K, V]
	valid   bool
}

func (it *ValueIterator[K, V]) Next() bool {
	e, ok := it.it.next()
	it.current, it.valid = e, ok
	return ok
}

func (it *ValueIterator[K, V]) Value() V { return it.current.Value }

func (it *ValueIterator[K, V]) Remove() error {
	if !it.valid {
		return ErrNoElement
	}
	it.valid = false
	_, _, err := it.cache.Remove(it.current.Key)
	return err
}

/* ---------------- entries ---------------- */

// EntriesView projects the cache's entries.
type EntriesView[K comparable, V comparable] struct {
	cache *Cache[K, V]
}

func (v *EntriesView[K, V]) Len() int      { return v.cache.Len() }
func (v *EntriesView[K, V]) IsEmpty() bool { return v.cache.IsEmpty() }

// Contains reports whether key currently maps to value.
func (v *EntriesView[K, V]) Contains(key K, value V) bool {
	cur, ok := v.cache.store.get(key)
	return ok && cur == value
}

// Remove deletes the entry only when key still maps to value.
func (v *EntriesView[K, V]) Remove(key K, value V) (bool, error) {
	return v.cache.CompareAndDelete(key, value)
}

func (v *EntriesView[K, V]) Clear() error { return v.cache.Clear() }

func (v *EntriesView[K, V]) Iterator() *EntryIterator[K, V] {
	return &EntryIterator[K, V]{cache: v.cache, it: v.cache.store.iterator()}
}

type EntryIterator[K comparable, V comparable] struct {
	cache   *Cache[K, V]
	it      *storeIter[K, V]
	current Entry[K, V]
	valid   bool
}

func (it *EntryIterator[K, V]) Next() bool {
	e, ok := it.it.next()
	it.current, it.valid = e, ok
	return ok
}

func (it *EntryIterator[K, V]) Entry() Entry[K, V] { return it.current }
func (it *EntryIterator[K, V]) Key() K             { return it.current.Key }
func (it *EntryIterator[K, V]) Value() V           { return it.current.Value }

// SetValue routes a value assignment for the current entry through the
// cache's Replace, keeping write-through and notification semantics.
func (it *EntryIterator[K, V]) SetValue(value V) error {
	if !it.valid {
		return ErrNoElement
	}
	_, _, err := it.cache.Replace(it.current.Key, value)
	if err == nil {
		it.current.Value = value
	}
	return err
}

func (it *EntryIterator[K, V]) Remove() error {
	if !it.valid {
		return ErrNoElement
	}
	it.valid = false
	_, _, err := it.cache.Remove(it.current.Key)
	return err
}
