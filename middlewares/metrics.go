package middlewares

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blurname/farrow/internal"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	Namespace string
	Buckets   []float64
	Registry  prometheus.Registerer
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metric namespace prefix.
func WithMetricsNamespace(ns string) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Namespace = ns
	}
}

// WithMetricsBuckets sets the duration histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Buckets = buckets
	}
}

// WithMetricsRegistry sets the registry metrics are registered on.
// Defaults to prometheus.DefaultRegisterer.
func WithMetricsRegistry(reg prometheus.Registerer) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Registry = reg
	}
}

// Metrics returns middleware recording request totals, in-flight count,
// and duration per method and outcome. Outcome is the response kind for
// handled requests, "error" for failed ones.
func Metrics(opts ...MetricsOption) internal.Middleware {
	cfg := &MetricsConfig{
		Buckets:  prometheus.DefBuckets,
		Registry: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "requests_total",
		Help:      "Requests processed, by method and outcome.",
	}, []string{"method", "outcome"})

	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "requests_in_flight",
		Help:      "Requests currently being processed.",
	})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request processing time, by method.",
		Buckets:   cfg.Buckets,
	}, []string{"method"})

	cfg.Registry.MustRegister(total, inflight, duration)

	return func(ctx context.Context, req *internal.RequestDescriptor, next internal.Next) (*internal.Response, error) {
		inflight.Inc()
		start := time.Now()

		resp, err := next(ctx, req)

		inflight.Dec()
		duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

		outcome := "error"
		if err == nil && resp != nil {
			outcome = resp.Kind.String()
		}
		total.WithLabelValues(req.Method, outcome).Inc()

		return resp, err
	}
}
