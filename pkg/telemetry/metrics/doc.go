// Package metrics provides Prometheus metrics collection for iolimiterd.
//
// # Overview
//
// The metrics package exports coordination-loop drain activity, bytes
// granted and requests made by priority class and operation type, and
// per-client-slot call counts and available-bucket gauges, for every named
// ratelimit.Limiter the daemon runs.
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.CollectorOptions{
//		Enabled:   true,
//		Namespace: "iolimiter",
//		Subsystem: "ratelimit",
//	}, nil)
//
//	collector.RecordRequest("ingest", "user", "write")
//	collector.RecordBytesGranted("ingest", "user", 65536)
//	collector.RecordClientCall("ingest", 0)
//	collector.UpdateClientAvailable("ingest", 0, 131072)
//	collector.RecordDrain("ingest")
//
// # Prometheus Endpoint
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality Management
//
// The collector caps the (limiter, priority) label combinations it tracks
// for bytes_granted_total at 10,000; beyond that, the priority label is
// recorded as "other". The other metric families are not capped.
package metrics
