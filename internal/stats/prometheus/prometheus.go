// Package prometheus provides a stats collector backed by Prometheus metrics.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lgbarn/pgntree/internal/stats"
)

// parseBuckets spans 10µs to about 2.6s, the range of single-game parse times.
var parseBuckets = prometheus.ExponentialBuckets(1e-5, 4, 10)

// Collector implements stats.Collector, creating each metric on first use.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

var _ stats.Collector = (*Collector)(nil)

// New creates a collector registering into registry.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		counter = register(c.registry, prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help(name)}))
		c.counters[name] = counter
	}
	c.mu.Unlock()
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		gauge = register(c.registry, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help(name)}))
		c.gauges[name] = gauge
	}
	c.mu.Unlock()
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.mu.Lock()
	histogram, ok := c.histograms[name]
	if !ok {
		buckets := prometheus.DefBuckets
		if name == stats.MetricParseSeconds {
			buckets = parseBuckets
		}
		histogram = register(c.registry, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name),
			Buckets: buckets,
		}))
		c.histograms[name] = histogram
	}
	c.mu.Unlock()
	histogram.Observe(value)
}

// register adds m to reg, returning the metric already registered under the
// same name when there is one. A metric that fails to register still counts,
// it is just not exported.
func register[M prometheus.Collector](reg prometheus.Registerer, m M) M {
	if err := reg.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				return existing
			}
		}
	}
	return m
}

var helpText = map[string]string{
	stats.MetricGamesParsed:    "Games parsed successfully.",
	stats.MetricGamesFailed:    "Game units that failed to parse.",
	stats.MetricParseSeconds:   "Time spent parsing one game unit.",
	stats.MetricCollectionSize: "Games held in the most recently loaded collection.",
	stats.MetricGamesWritten:   "Games serialized.",
	stats.MetricCacheHits:      "Navigator position cache hits.",
	stats.MetricCacheMisses:    "Navigator position cache misses.",
	stats.MetricTreeEdits:      "Structural edits applied through a navigator.",
}

func help(name string) string {
	if h, ok := helpText[name]; ok {
		return h
	}
	return name
}
