package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dataseek",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by mode and outcome",
		},
		[]string{"mode", "outcome"}, // outcome: "ok" / "fallback" / "empty"
	)

	SearchStrategyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dataseek",
			Name:      "search_strategy_duration_seconds",
			Help:      "Per-strategy retrieval duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	SearchFusionPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dataseek",
			Name:      "search_fusion_pool_size",
			Help:      "Merged candidate pool size before pagination",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2000},
		},
	)

	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dataseek",
			Name:      "oracle_requests_total",
			Help:      "Total oracle (LLM) requests by operation and status",
		},
		[]string{"operation", "status"}, // operation: interpret/suggest/summarize
	)

	InterpretDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dataseek",
			Name:      "interpret_degraded_total",
			Help:      "Query interpretations that fell back to the degraded path",
		},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dataseek",
			Name:      "response_cache_total",
			Help:      "Search response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStrategyDuration)
	prometheus.MustRegister(SearchFusionPoolSize)
	prometheus.MustRegister(OracleRequestsTotal)
	prometheus.MustRegister(InterpretDegradedTotal)
	prometheus.MustRegister(ResponseCacheTotal)
	searchMetricsRegistered = true
}
