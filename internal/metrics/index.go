package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search index Prometheus metrics.
var (
	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "index_builds_total",
			Help:      "Total number of search index builds",
		},
		[]string{"status"}, // "ok" / "error"
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "index_build_duration_seconds",
			Help:      "Search index build duration in seconds, catalog fetch included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	IndexedRecipes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipedex",
			Name:      "indexed_recipes",
			Help:      "Number of recipes in the published index generation",
		},
	)

	IndexGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipedex",
			Name:      "index_generation",
			Help:      "Sequence number of the published index generation",
		},
	)

	IndexMalformedFieldsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "index_malformed_fields_total",
			Help:      "Ingredient or tag payloads indexed through their fallback form",
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "queries_total",
			Help:      "Total number of recipe queries",
		},
		[]string{"mode", "status"},
	)

	QueryCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "query_candidates",
			Help:      "Candidate recipes fetched per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"mode"},
	)
)

var registerIndexOnce sync.Once

// RegisterIndexMetrics registers the index and query metrics on the default
// registry. Safe to call more than once and from several goroutines.
func RegisterIndexMetrics() {
	registerIndexOnce.Do(func() {
		prometheus.MustRegister(
			IndexBuildsTotal,
			IndexBuildDuration,
			IndexedRecipes,
			IndexGeneration,
			IndexMalformedFieldsTotal,
			QueriesTotal,
			QueryCandidates,
		)
	})
}
