package tornamcp

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "torna_mcp",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK calls by operation and outcome.",
		}, []string{"operation", "status"}), // status: ok | api_error | transport_error
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "torna_mcp",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds, including the HTTP round trip.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("tornamcp: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("tornamcp: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK calls.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	var apiErr *APIError
	status := "ok"
	switch {
	case errors.As(err, &apiErr):
		status = "api_error"
	case err != nil:
		status = "transport_error"
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch {
	case apiErr != nil:
		o.logger.Warn("torna-mcp call rejected",
			"op", op, "duration", dur, "status_code", apiErr.StatusCode, "error", err)
	case err != nil:
		o.logger.Warn("torna-mcp call failed", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Debug("torna-mcp call completed", "op", op, "duration", dur)
	}
}
