package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIKeyOperationsTotal counts manager operations by outcome.
	// result: ok, absent, invalid, error
	APIKeyOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socketkey_api_key_operations_total",
			Help: "Total number of API key operations",
		},
		[]string{"operation", "result"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socketkey_store_operation_duration_seconds",
			Help:    "TTL store round trip duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"backend", "operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socketkey_store_errors_total",
			Help: "Total number of failed TTL store calls",
		},
		[]string{"backend", "operation"},
	)

	ExpiredEntriesRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socketkey_store_expired_entries_removed_total",
			Help: "Expired entries removed by periodic cleanup",
		},
		[]string{"backend"},
	)
)

// RecordKeyOperation increments the operation counter.
func RecordKeyOperation(operation, result string) {
	APIKeyOperationsTotal.WithLabelValues(operation, result).Inc()
}
