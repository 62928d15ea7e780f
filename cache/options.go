package cache

import "time"

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - Shards <= 0     => auto (rounded up to power of two)
//   - nil StatsCounter => built-in atomic Counter (when RecordStats)
//   - nil Executor    => one goroutine per notification
//   - nil Logger      => NopLogger
type Options[K comparable, V comparable] struct {
	// Shards defines the number of lock stripes of the backing store.
	// If 0, an automatic value is chosen (≈ 2*GOMAXPROCS) and rounded to
	// the next power of two.
	Shards int

	// RecordStats enables hit/miss and load accounting. When false,
	// Stats() returns zeroes and the hot path skips all bookkeeping.
	RecordStats bool

	// StatsCounter overrides the destination for statistics, e.g. the
	// Prometheus adapter in metrics/prom. Ignored unless RecordStats is
	// set. Nil means the built-in atomic counter.
	StatsCounter StatsCounter

	// Writer is the synchronous write-through hook. Nil disables
	// write-through, which also lets Clear discard the store wholesale.
	Writer Writer[K, V]

	// OnRemoval is invoked asynchronously, on Executor, after every
	// committed mutation that removed or replaced a value. Nil disables
	// notification bookkeeping entirely.
	OnRemoval func(key K, value V, cause RemovalCause)

	// Executor dispatches removal notifications and other asynchronous
	// work. Nil runs each task on its own goroutine.
	Executor Executor

	// Clock overrides the time source used for load timing (tests).
	// Nil => time.Now().
	Clock Clock

	// Logger receives failures from asynchronous hooks. The engine never
	// logs from synchronous paths. Nil disables logging.
	Logger Logger
}

func (o Options[K, V]) clockNow() func() int64 {
	if o.Clock != nil {
		return o.Clock.NowUnixNano
	}
	return func() int64 { return time.Now().UnixNano() }
}
