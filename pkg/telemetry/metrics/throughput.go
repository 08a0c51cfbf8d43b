package metrics

import "github.com/prometheus/client_golang/prometheus"

// ThroughputMetrics tracks bytes and request counts flowing through a
// limiter, broken down by priority class and operation type.
//
// Metrics:
//   - <namespace>_<subsystem>_bytes_granted_total: bytes granted by limiter, priority
//   - <namespace>_<subsystem>_requests_total: requests made, by limiter, priority, op
type ThroughputMetrics struct {
	bytesGranted  *prometheus.CounterVec
	requestsTotal *prometheus.CounterVec
}

// NewThroughputMetrics creates and registers throughput metrics with registry.
func NewThroughputMetrics(opts CollectorOptions, registry *prometheus.Registry) *ThroughputMetrics {
	tm := &ThroughputMetrics{
		bytesGranted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "bytes_granted_total",
				Help:      "Total bytes granted, by limiter and priority class",
			},
			[]string{"limiter", "priority"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "requests_total",
				Help:      "Total requests made, by limiter, priority, and op type",
			},
			[]string{"limiter", "priority", "op"},
		),
	}

	registry.MustRegister(tm.bytesGranted, tm.requestsTotal)
	return tm
}

// RecordBytesGranted adds bytes to the running total for limiter/pri.
func (tm *ThroughputMetrics) RecordBytesGranted(limiter, pri string, bytes int64) {
	if bytes > 0 {
		tm.bytesGranted.WithLabelValues(limiter, pri).Add(float64(bytes))
	}
}

// RecordRequest increments the request counter for limiter/pri/op.
func (tm *ThroughputMetrics) RecordRequest(limiter, pri, op string) {
	tm.requestsTotal.WithLabelValues(limiter, pri, op).Inc()
}
