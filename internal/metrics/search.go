package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcome label values.
const (
	OutcomeFiltered    = "filtered"
	OutcomePassThrough = "passthrough"
	OutcomeError       = "error"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scriptsearch",
			Name:      "search_requests_total",
			Help:      "Total number of view searches",
		},
		[]string{"view", "outcome"},
	)

	SearchConditionLeaves = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scriptsearch",
			Name:      "search_condition_leaves",
			Help:      "Leaf predicates per built condition tree",
			Buckets:   []float64{2, 4, 8, 16, 32, 64, 128, 256},
		},
		[]string{"view"},
	)

	SearchStorageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scriptsearch",
			Name:      "search_storage_duration_seconds",
			Help:      "Storage listing duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"view"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchConditionLeaves)
	prometheus.MustRegister(SearchStorageDuration)
	searchMetricsRegistered = true
}
