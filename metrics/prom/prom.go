package prom

import (
	"time"

	"github.com/abelyaev/localcache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.StatsCounter and exports Prometheus counters.
// Snapshot() is served from an embedded cache.Counter so the engine's
// Stats() keeps working alongside the scrape endpoint. Safe for
// concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	inner    cache.Counter
	hits     prometheus.Counter
	misses   prometheus.Counter
	loads    *prometheus.CounterVec
	loadTime prometheus.Histogram
}

// New constructs a Prometheus stats adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "loads_total",
				Help:        "Cache loads by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		loadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "load_duration_seconds",
			Help:        "Time spent loading values",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.loads, a.loadTime)
	return a
}

// RecordHits adds n to the hit counters.
func (a *Adapter) RecordHits(n int) {
	a.inner.RecordHits(n)
	a.hits.Add(float64(n))
}

// RecordMisses adds n to the miss counters.
func (a *Adapter) RecordMisses(n int) {
	a.inner.RecordMisses(n)
	a.misses.Add(float64(n))
}

// RecordLoadSuccess records one successful load and its duration.
func (a *Adapter) RecordLoadSuccess(d time.Duration) {
	a.inner.RecordLoadSuccess(d)
	a.loads.WithLabelValues("success").Inc()
	a.loadTime.Observe(d.Seconds())
}

// RecordLoadError records one failed load and its duration.
func (a *Adapter) RecordLoadError(d time.Duration) {
	a.inner.RecordLoadError(d)
	a.loads.WithLabelValues("error").Inc()
	a.loadTime.Observe(d.Seconds())
}

// Snapshot returns the accumulated statistics.
func (a *Adapter) Snapshot() cache.Stats { return a.inner.Snapshot() }

// Compile-time check: ensure Adapter implements cache.StatsCounter.
var _ cache.StatsCounter = (*Adapter)(nil)
