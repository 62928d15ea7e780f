// Package listener fans entry-change events out to externally registered,
// capability-filtered listeners. A listener declares which event
// categories it handles by filling the matching handler slots; dispatch
// tests membership instead of inspecting types, and a listener failure is
// logged, never propagated.
package listener

import (
	"fmt"

	"github.com/abelyaev/localcache/cache"
)

// EventType tags an entry-change event.
type EventType int

const (
	Created EventType = iota
	Updated
	Removed
	Expired
)

func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event describes one committed change to a cache entry. OldValue is set
// for Updated events only.
type Event[K comparable, V any] struct {
	Type     EventType
	Key      K
	Value    V
	OldValue V
}

// Listener is a set of optionally-present handler slots. A nil slot means
// the listener does not support that event category and is never invoked
// for it.
type Listener[K comparable, V any] struct {
	OnCreated func(Event[K, V])
	OnUpdated func(Event[K, V])
	OnRemoved func(Event[K, V])
	OnExpired func(Event[K, V])
}

// Supports reports whether the listener handles events of type t.
// Panics on an unrecognized type: that is a programming error, an
// unhandled addition to the event enumeration.
func (l *Listener[K, V]) Supports(t EventType) bool {
	switch t {
	case Created:
		return l.OnCreated != nil
	case Updated:
		return l.OnUpdated != nil
	case Removed:
		return l.OnRemoved != nil
	case Expired:
		return l.OnExpired != nil
	default:
		panic(fmt.Sprintf("listener: unknown event type: %v", t))
	}
}

func (l *Listener[K, V]) handler(t EventType) func(Event[K, V]) {
	switch t {
	case Created:
		return l.OnCreated
	case Updated:
		return l.OnUpdated
	case Removed:
		return l.OnRemoved
	case Expired:
		return l.OnExpired
	default:
		panic(fmt.Sprintf("listener: unknown event type: %v", t))
	}
}

// Dispatcher delivers events to its registered listeners. Register and
// Dispatch are not synchronized against each other: register listeners
// before publishing events.
type Dispatcher[K comparable, V any] struct {
	listeners []*Listener[K, V]
	logger    cache.Logger
}

// NewDispatcher constructs a dispatcher. A nil logger disables logging.
func NewDispatcher[K comparable, V any](logger cache.Logger) *Dispatcher[K, V] {
	if logger == nil {
		logger = cache.NopLogger{}
	}
	return &Dispatcher[K, V]{logger: logger}
}

// Register adds a listener. Listeners with no handler slots are accepted
// and simply never invoked.
func (d *Dispatcher[K, V]) Register(l *Listener[K, V]) {
	d.listeners = append(d.listeners, l)
}

// Dispatch delivers ev to every listener that supports its category. A
// panicking listener is recovered and logged, at Warn for error values
// and Error severity for anything else; delivery to the remaining
// listeners continues. Panics on an unrecognized event type.
func (d *Dispatcher[K, V]) Dispatch(ev Event[K, V]) {
	for _, l := range d.listeners {
		if !l.Supports(ev.Type) {
			continue
		}
		d.deliver(l.handler(ev.Type), ev)
	}
}

func (d *Dispatcher[K, V]) deliver(h func(Event[K, V]), ev Event[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			f := cache.Fields{"event": ev.Type.String(), "key": ev.Key, "panic": r}
			if _, ok := r.(error); ok {
				d.logger.Warn("cache entry listener failed", f)
			} else {
				d.logger.Error("cache entry listener panicked with non-error value", f)
			}
		}
	}()
	h(ev)
}
