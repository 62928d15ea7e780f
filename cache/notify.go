package cache

// RemovalCause explains why an entry's value left the cache.
type RemovalCause int

const (
	// CauseExplicit: the entry was removed by a user action (Remove,
	// CompareAndDelete, Clear, iterator removal).
	CauseExplicit RemovalCause = iota
	// CauseReplaced: the entry's value was superseded by a new one.
	CauseReplaced
	// CauseExpired: the entry passed its lifetime. Never produced by this
	// engine; reserved for bounded variants that share the notification
	// contract.
	CauseExpired
)

// Evicted reports whether the removal was automatic rather than requested
// by the user.
func (c RemovalCause) Evicted() bool { return c == CauseExpired }

func (c RemovalCause) String() string {
	switch c {
	case CauseExplicit:
		return "explicit"
	case CauseReplaced:
		return "replaced"
	case CauseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Executor accepts a unit of work for asynchronous dispatch. No ordering
// or priority guarantee is required of it. The default executor runs each
// task on its own goroutine; see the executor package for a bounded pool.
type Executor func(task func())

// notifyRemoval queues one removal notification for asynchronous delivery.
// Must be called only after the triggering mutation has committed, outside
// any shard lock, and only when a listener is registered.
//
// A panicking listener never propagates to the mutator: the panic is
// recovered and logged, at Warn for error values and Error for anything
// else, and is not retried.
func (c *Cache[K, V]) notifyRemoval(key K, value V, cause RemovalCause) {
	c.execute(func() {
		defer func() {
			if r := recover(); r != nil {
				f := Fields{"key": key, "cause": cause.String(), "panic": r}
				if _, ok := r.(error); ok {
					c.logger.Warn("removal listener failed", f)
				} else {
					c.logger.Error("removal listener panicked with non-error value", f)
				}
			}
		}()
		c.onRemoval(key, value, cause)
	})
}

// afterCompute derives the removal notification, if any, from a committed
// mutation. No notification is emitted when nothing was mapped before, or
// when the value object is unchanged.
func (c *Cache[K, V]) afterCompute(key K, m mutation[V]) {
	if c.onRemoval == nil || !m.had {
		return
	}
	switch {
	case !m.present:
		c.notifyRemoval(key, m.old, CauseExplicit)
	case m.old != m.val:
		c.notifyRemoval(key, m.old, CauseReplaced)
	}
}
