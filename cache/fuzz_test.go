//go:build go1.18

package cache

import (
	"strings"
	"testing"
)

// Fuzz basic Put/GetIfPresent/Remove semantics under arbitrary string
// inputs. Guards against panics and ensures core invariants hold.
// NOTE: We cap key/value lengths to avoid pathological memory usage
// during fuzzing (this does not weaken the invariants we check).
func FuzzCache_PutGetRemove(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		// Cap lengths to keep memory bounded during fuzzing.
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New[string, string](Options[string, string]{Shards: 4})

		// Put -> GetIfPresent must return the same value.
		c.Put(k, v)
		got, ok := c.GetIfPresent(k)
		if !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// PutIfAbsent on a present key must not overwrite.
		if _, stored, _ := c.PutIfAbsent(k, v+"-other"); stored {
			t.Fatalf("PutIfAbsent on present key stored")
		}
		if got2, ok := c.GetIfPresent(k); !ok || got2 != v {
			t.Fatalf("after failed PutIfAbsent: want %q, got %q ok=%v", v, got2, ok)
		}

		// Remove must return the value once.
		removed, ok, err := c.Remove(k)
		if err != nil || !ok || removed != v {
			t.Fatalf("Remove: %q ok=%v err=%v", removed, ok, err)
		}
		if _, ok := c.GetIfPresent(k); ok {
			t.Fatalf("key must be absent after Remove")
		}

		// Compute on the absent key must be able to re-create it.
		if nv, present := c.Compute(k, func(string, bool) (string, bool) { return v, true }); !present || nv != v {
			t.Fatalf("Compute re-create: %q present=%v", nv, present)
		}
	})
}
