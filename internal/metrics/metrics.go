// Package metrics holds the Prometheus collectors shared by the registries
// and the local API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	// RegistryMutations counts mutating registry calls by outcome.
	RegistryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rc_registry_mutations_total",
		Help: "Mutating registry operations by registry, operation and result",
	}, []string{"registry", "operation", "result"})

	// PersistFailures counts failed document writes.
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rc_persist_failures_total",
		Help: "Failed collection writes by collection",
	}, []string{"collection"})

	// HTTPRequests counts local API requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rc_http_requests_total",
		Help: "Local API requests by method and status code",
	}, []string{"method", "code"})

	// HTTPDuration tracks local API latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rc_http_request_duration_seconds",
		Help:    "Local API request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"method"})
)

// Mutation records the outcome of one registry mutation.
func Mutation(registry, operation, result string) {
	RegistryMutations.WithLabelValues(registry, operation, result).Inc()
}
