// Package stats defines the metrics interface the loader, writer and
// navigator report through.
package stats

// Metric names.
const (
	// Loading.
	MetricGamesParsed    = "pgntree_games_parsed_total"
	MetricGamesFailed    = "pgntree_games_failed_total"
	MetricParseSeconds   = "pgntree_parse_duration_seconds"
	MetricCollectionSize = "pgntree_collection_size"

	// Writing.
	MetricGamesWritten = "pgntree_games_written_total"

	// Navigation.
	MetricCacheHits   = "pgntree_position_cache_hits_total"
	MetricCacheMisses = "pgntree_position_cache_misses_total"
	MetricTreeEdits   = "pgntree_tree_edits_total"
)

// Collector receives metric updates. Implementations must be safe for
// concurrent use.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// OrNoop returns c, or a Noop collector when c is nil.
func OrNoop(c Collector) Collector {
	if c == nil {
		return Noop{}
	}
	return c
}
