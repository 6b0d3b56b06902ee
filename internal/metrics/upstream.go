package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream (Torna API) Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "torna_mcp",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the Torna API",
		},
		[]string{"endpoint", "status"}, // status: ok | upstream_error | transport_error
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "torna_mcp",
			Name:      "upstream_request_duration_seconds",
			Help:      "Torna API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	ModuleFetchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "torna_mcp",
			Name:      "module_fetch_failures_total",
			Help:      "Module document-tree fetches skipped during aggregation",
		},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers Prometheus upstream metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(ModuleFetchFailuresTotal)
	upstreamMetricsRegistered = true
}
