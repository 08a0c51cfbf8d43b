package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectorOptions configures a Collector.
type CollectorOptions struct {
	// Enabled gates every Record*/Update* call; when false they are no-ops.
	Enabled bool

	// Namespace and Subsystem are applied to every metric name, e.g.
	// "iolimiter_ratelimit_bytes_granted_total" for Namespace "iolimiter",
	// Subsystem "ratelimit".
	Namespace string
	Subsystem string
}

// Collector is the orchestrator for every Prometheus metric iolimiterd
// exports. It mirrors ratelimit.StatsSink's event surface (drain ticks) plus
// the additional per-(limiter, client, priority) counters a running daemon
// wants beyond the in-process Snapshot.
type Collector struct {
	opts     CollectorOptions
	registry *prometheus.Registry

	drainMetrics      *DrainMetrics
	throughputMetrics *ThroughputMetrics
	clientMetrics     *ClientMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a Collector and registers its metrics with registry.
// If registry is nil, a fresh prometheus.Registry is used.
func NewCollector(opts CollectorOptions, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if opts.Namespace == "" {
		opts.Namespace = "iolimiter"
	}
	if opts.Subsystem == "" {
		opts.Subsystem = "ratelimit"
	}

	c := &Collector{
		opts:               opts,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.drainMetrics = NewDrainMetrics(opts, registry)
	c.throughputMetrics = NewThroughputMetrics(opts, registry)
	c.clientMetrics = NewClientMetrics(opts, registry)

	return c
}

// RecordDrain records one coordination-loop drain/refill tick for a named
// limiter. Grounded on ratelimit.StatsSink.RecordTick.
func (c *Collector) RecordDrain(limiter string) {
	if !c.opts.Enabled {
		return
	}
	c.drainMetrics.RecordTick(limiter)
}

// RecordBytesGranted records bytes handed out to a request at priority
// class pri for a named limiter.
func (c *Collector) RecordBytesGranted(limiter, pri string, bytes int64) {
	if !c.opts.Enabled {
		return
	}

	labelSet := fmt.Sprintf("bytes:%s:%s", limiter, pri)
	if !c.cardinalityLimiter.Allow(labelSet) {
		pri = "other"
	}
	c.throughputMetrics.RecordBytesGranted(limiter, pri, bytes)
}

// RecordRequest records one request at priority class pri, op type op, for
// a named limiter. The daemon's stats adapter calls it when the request
// enters the limiter, before any bytes are granted.
func (c *Collector) RecordRequest(limiter, pri, op string) {
	if !c.opts.Enabled {
		return
	}
	c.throughputMetrics.RecordRequest(limiter, pri, op)
}

// UpdateClientAvailable updates the available-bytes gauge for one client
// slot of a named limiter, sampled after each refill.
func (c *Collector) UpdateClientAvailable(limiter string, clientID int, available int64) {
	if !c.opts.Enabled {
		return
	}
	c.clientMetrics.UpdateAvailable(limiter, clientID, available)
}

// RecordClientCall increments the per-client call counter for a named
// limiter.
func (c *Collector) RecordClientCall(limiter string, clientID int) {
	if !c.opts.Enabled {
		return
	}
	c.clientMetrics.RecordCall(limiter, clientID)
}

// Registry returns the underlying Prometheus registry, e.g. to build an
// HTTP handler with Handler().
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting the
// number of unique label combinations tracked per metric family.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter capping tracked label sets at
// maxCardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet may be recorded: true if it is already
// tracked or room remains under the cardinality cap, false otherwise.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
