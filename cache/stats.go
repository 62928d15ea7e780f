package cache

import (
	"time"

	"github.com/abelyaev/localcache/internal/util"
)

// Stats is an immutable snapshot of accumulated cache statistics.
// Counts are monotonically increasing over the cache's lifetime.
type Stats struct {
	Hits          int64
	Misses        int64
	LoadSuccesses int64
	LoadErrors    int64
	TotalLoadTime time.Duration
}

// Requests returns the number of lookups, hits plus misses.
func (s Stats) Requests() int64 { return s.Hits + s.Misses }

// HitRate returns the ratio of lookups that were hits (1.0 when idle).
func (s Stats) HitRate() float64 {
	if req := s.Requests(); req > 0 {
		return float64(s.Hits) / float64(req)
	}
	return 1.0
}

// MissRate returns the ratio of lookups that were misses (0.0 when idle).
func (s Stats) MissRate() float64 {
	if req := s.Requests(); req > 0 {
		return float64(s.Misses) / float64(req)
	}
	return 0.0
}

// AverageLoadPenalty returns the mean time spent in loads.
func (s Stats) AverageLoadPenalty() time.Duration {
	loads := s.LoadSuccesses + s.LoadErrors
	if loads == 0 {
		return 0
	}
	return s.TotalLoadTime / time.Duration(loads)
}

// StatsCounter accumulates cache statistics. Implementations must be safe
// for lock-free concurrent use from any number of goroutines.
type StatsCounter interface {
	RecordHits(n int)
	RecordMisses(n int)
	RecordLoadSuccess(d time.Duration)
	RecordLoadError(d time.Duration)
	Snapshot() Stats
}

// Counter is the default StatsCounter. Hot counters live on separate
// cache lines to avoid false sharing between reader goroutines.
type Counter struct {
	hits     util.PaddedAtomicInt64
	misses   util.PaddedAtomicInt64
	loadOK   util.PaddedAtomicInt64
	loadErr  util.PaddedAtomicInt64
	loadTime util.PaddedAtomicInt64 // nanoseconds
}

// NewCounter returns a zeroed Counter.
func NewCounter() *Counter { return &Counter{} }

func (c *Counter) RecordHits(n int)   { c.hits.Add(int64(n)) }
func (c *Counter) RecordMisses(n int) { c.misses.Add(int64(n)) }

func (c *Counter) RecordLoadSuccess(d time.Duration) {
	c.loadOK.Add(1)
	c.loadTime.Add(int64(d))
}

func (c *Counter) RecordLoadError(d time.Duration) {
	c.loadErr.Add(1)
	c.loadTime.Add(int64(d))
}

func (c *Counter) Snapshot() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		LoadSuccesses: c.loadOK.Load(),
		LoadErrors:    c.loadErr.Load(),
		TotalLoadTime: time.Duration(c.loadTime.Load()),
	}
}

var _ StatsCounter = (*Counter)(nil)

// disabledStats is installed when Options.RecordStats is false so the hot
// path pays a single no-op call instead of a branch per record site.
type disabledStats struct{}

func (disabledStats) RecordHits(int)                 {}
func (disabledStats) RecordMisses(int)               {}
func (disabledStats) RecordLoadSuccess(time.Duration) {}
func (disabledStats) RecordLoadError(time.Duration)   {}
func (disabledStats) Snapshot() Stats                 { return Stats{} }
