package metrics

import "github.com/prometheus/client_golang/prometheus"

// DrainMetrics tracks coordination-loop drain/refill activity.
//
// Metrics:
//   - <namespace>_<subsystem>_drains_total: coordination drains per limiter
type DrainMetrics struct {
	drainsTotal *prometheus.CounterVec
}

// NewDrainMetrics creates and registers drain metrics with registry.
func NewDrainMetrics(opts CollectorOptions, registry *prometheus.Registry) *DrainMetrics {
	dm := &DrainMetrics{
		drainsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "drains_total",
				Help:      "Total number of coordination-loop drain/refill ticks",
			},
			[]string{"limiter"},
		),
	}

	registry.MustRegister(dm.drainsTotal)
	return dm
}

// RecordTick increments the drain counter for limiter.
func (dm *DrainMetrics) RecordTick(limiter string) {
	dm.drainsTotal.WithLabelValues(limiter).Inc()
}
