package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics tracks per-client-slot activity within a limiter.
//
// Metrics:
//   - <namespace>_<subsystem>_client_calls_total: calls per limiter, client slot
//   - <namespace>_<subsystem>_client_available_bytes: available bucket bytes, sampled after refill
type ClientMetrics struct {
	callsTotal     *prometheus.CounterVec
	availableBytes *prometheus.GaugeVec
}

// NewClientMetrics creates and registers client metrics with registry.
func NewClientMetrics(opts CollectorOptions, registry *prometheus.Registry) *ClientMetrics {
	cm := &ClientMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "client_calls_total",
				Help:      "Total Request calls, by limiter and client slot",
			},
			[]string{"limiter", "client"},
		),

		availableBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "client_available_bytes",
				Help:      "Bytes currently available in a client's bucket, sampled after refill",
			},
			[]string{"limiter", "client"},
		),
	}

	registry.MustRegister(cm.callsTotal, cm.availableBytes)
	return cm
}

// RecordCall increments the call counter for limiter/clientID.
func (cm *ClientMetrics) RecordCall(limiter string, clientID int) {
	cm.callsTotal.WithLabelValues(limiter, strconv.Itoa(clientID)).Inc()
}

// UpdateAvailable sets the available-bytes gauge for limiter/clientID.
func (cm *ClientMetrics) UpdateAvailable(limiter string, clientID int, available int64) {
	cm.availableBytes.WithLabelValues(limiter, strconv.Itoa(clientID)).Set(float64(available))
}
