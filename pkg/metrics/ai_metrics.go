// Package metrics provides Prometheus metrics for monitoring roadgen components.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AI call metrics
var (
	// aiRequestsTotal records the total number of OpenRouter API calls.
	// Labels:
	//   - operation: API operation (e.g., "analyze_resume", "generate_roadmap")
	//   - status: Call status (e.g., "success", "timeout", "rate_limited", "failed")
	aiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of OpenRouter chat completion calls",
		},
		[]string{"operation", "status"},
	)

	// aiRequestDuration records the duration of OpenRouter API calls.
	// Generation calls typically take 5-20s, hence the wide buckets.
	aiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Duration of OpenRouter chat completion calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation"},
	)

	// aiCacheEventsTotal records AI response cache hits and misses.
	aiCacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_cache_events_total",
			Help: "AI response cache hits and misses",
		},
		[]string{"operation", "event"},
	)
)

// Roadmap store metrics
var (
	// storeOperationsTotal records document store operations by outcome.
	// Labels:
	//   - operation: Store operation (e.g., "create", "get", "list", "update", "delete")
	//   - status: Operation status ("success", "not_found", "error")
	storeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_store_operations_total",
			Help: "Total number of roadmap document store operations",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(aiRequestsTotal)
	prometheus.MustRegister(aiRequestDuration)
	prometheus.MustRegister(aiCacheEventsTotal)
	prometheus.MustRegister(storeOperationsTotal)
}

// RecordAIRequest records an OpenRouter call outcome.
func RecordAIRequest(operation, status string) {
	aiRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAIDuration records the duration of an OpenRouter call.
func RecordAIDuration(operation string, durationSeconds float64) {
	aiRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordCacheEvent records an AI cache hit or miss.
// event must be "hit" or "miss".
func RecordCacheEvent(operation, event string) {
	aiCacheEventsTotal.WithLabelValues(operation, event).Inc()
}

// RecordStoreOperation records a roadmap store operation outcome.
func RecordStoreOperation(operation, status string) {
	storeOperationsTotal.WithLabelValues(operation, status).Inc()
}
