package cache

import (
	"errors"
	"testing"
)

// Views are memoized live projections: repeated accessors return the same
// adapter, and the adapter tracks the cache.
func TestViews_MemoizedAndLive(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{})
	if c.Keys() != c.Keys() || c.Values() != c.Values() || c.Entries() != c.Entries() {
		t.Fatal("views must be memoized")
	}

	ks := c.Keys()
	if !ks.IsEmpty() {
		t.Fatal("view of an empty cache must be empty")
	}
	c.Put("a", 1)
	if ks.Len() != 1 || !ks.Contains("a") {
		t.Fatal("view must observe the mutation")
	}
	if !c.Values().Contains(1) || c.Values().Contains(2) {
		t.Fatal("values view Contains is wrong")
	}
	if !c.Entries().Contains("a", 1) || c.Entries().Contains("a", 2) {
		t.Fatal("entries view Contains is wrong")
	}
}

// View clear routes through the engine so each entry still notifies.
func TestViews_ClearNotifies(t *testing.T) {
	t.Parallel()

	rec := &recorder[string, int]{}
	c := New[string, int](Options[string, int]{OnRemoval: rec.onRemoval, Executor: inlineExec})
	c.Put("a", 1)
	c.Put("b", 2)

	if err := c.Values().Clear(); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 || len(rec.all()) != 2 {
		t.Fatalf("len=%d events=%d", c.Len(), len(rec.all()))
	}
}

// Iterator removal before the first advance fails; afterwards it removes
// through the engine, causes included.
func TestViews_IteratorRemove(t *testing.T) {
	t.Parallel()

	rec := &recorder[string, int]{}
	c := New[string, int](Options[string, int]{OnRemoval: rec.onRemoval, Executor: inlineExec})
	c.Put("a", 1)

	it := c.Keys().Iterator()
	if err := it.Remove(); !errors.Is(err, ErrNoElement) {
		t.Fatalf("Remove before Next: %v", err)
	}
	if !it.Next() {
		t.Fatal("expected one element")
	}
	if err := it.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := it.Remove(); !errors.Is(err, ErrNoElement) {
		t.Fatalf("double Remove: %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("iterator removal must reach the cache")
	}
	events := rec.all()
	if len(events) != 1 || events[0].cause != CauseExplicit {
		t.Fatalf("events: %+v", events)
	}
}

// The value and entry iterators remove by the element's key.
func TestViews_ValueAndEntryIterators(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{})
	c.Put("a", 1)
	c.Put("b", 2)

	sum := 0
	vit := c.Values().Iterator()
	for vit.Next() {
		sum += vit.Value()
	}
	if sum != 3 {
		t.Fatalf("sum = %d", sum)
	}

	eit := c.Entries().Iterator()
	for eit.Next() {
		if eit.Key() == "a" {
			if err := eit.Remove(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if c.Contains("a") || !c.Contains("b") {
		t.Fatal("entry iterator removal went wrong")
	}
}

// Entry value assignment routes through Replace, so it notifies and
// refuses before the first advance.
func TestViews_EntrySetValue(t *testing.T) {
	t.Parallel()

	rec := &recorder[string, int]{}
	c := New[string, int](Options[string, int]{OnRemoval: rec.onRemoval, Executor: inlineExec})
	c.Put("a", 1)

	it := c.Entries().Iterator()
	if err := it.SetValue(9); !errors.Is(err, ErrNoElement) {
		t.Fatalf("SetValue before Next: %v", err)
	}
	if !it.Next() {
		t.Fatal("expected one element")
	}
	if err := it.SetValue(9); err != nil {
		t.Fatal(err)
	}
	if it.Value() != 9 {
		t.Fatalf("iterator value = %d", it.Value())
	}
	if v, _ := c.GetIfPresent("a"); v != 9 {
		t.Fatalf("cache value = %d", v)
	}
	events := rec.all()
	if len(events) != 1 || events[0] != (removal[string, int]{"a", 1, CauseReplaced}) {
		t.Fatalf("events: %+v", events)
	}
}

// Entries view conditional removal.
func TestViews_EntriesRemove(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{})
	c.Put("a", 1)

	if ok, _ := c.Entries().Remove("a", 2); ok {
		t.Fatal("wrong value must not remove")
	}
	if ok, _ := c.Entries().Remove("a", 1); !ok {
		t.Fatal("matching value must remove")
	}
	if c.Contains("a") {
		t.Fatal("entry must be gone")
	}
}
