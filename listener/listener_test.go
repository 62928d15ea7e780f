package listener

import (
	"errors"
	"testing"
)

// A listener is invoked only for the categories it declares.
func TestDispatcher_CapabilityFiltering(t *testing.T) {
	t.Parallel()

	var created, updated int
	d := NewDispatcher[string, int](nil)
	d.Register(&Listener[string, int]{
		OnCreated: func(Event[string, int]) { created++ },
	})
	d.Register(&Listener[string, int]{
		OnCreated: func(Event[string, int]) { created++ },
		OnUpdated: func(Event[string, int]) { updated++ },
	})

	d.Dispatch(Event[string, int]{Type: Created, Key: "a", Value: 1})
	d.Dispatch(Event[string, int]{Type: Updated, Key: "a", Value: 2, OldValue: 1})
	d.Dispatch(Event[string, int]{Type: Removed, Key: "a", Value: 2})

	if created != 2 {
		t.Fatalf("created handlers ran %d times", created)
	}
	if updated != 1 {
		t.Fatalf("updated handlers ran %d times", updated)
	}
}

// A listener declaring only Created support never sees an Updated event.
func TestListener_Supports(t *testing.T) {
	t.Parallel()

	l := &Listener[string, int]{OnCreated: func(Event[string, int]) {}}
	if !l.Supports(Created) {
		t.Fatal("must support Created")
	}
	for _, typ := range []EventType{Updated, Removed, Expired} {
		if l.Supports(typ) {
			t.Fatalf("must not support %v", typ)
		}
	}
}

// A panicking listener is isolated: later listeners still run and the
// dispatcher survives.
func TestDispatcher_PanicIsolated(t *testing.T) {
	t.Parallel()

	ran := false
	d := NewDispatcher[string, int](nil)
	d.Register(&Listener[string, int]{
		OnRemoved: func(Event[string, int]) { panic(errors.New("listener bug")) },
	})
	d.Register(&Listener[string, int]{
		OnRemoved: func(Event[string, int]) { ran = true },
	})

	d.Dispatch(Event[string, int]{Type: Removed, Key: "a"})
	if !ran {
		t.Fatal("second listener must still run")
	}
}

// An unrecognized event category is a programming error and raises hard.
func TestDispatcher_UnknownTypePanics(t *testing.T) {
	t.Parallel()

	d := NewDispatcher[string, int](nil)
	d.Register(&Listener[string, int]{OnCreated: func(Event[string, int]) {}})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	d.Dispatch(Event[string, int]{Type: EventType(42), Key: "a"})
}
