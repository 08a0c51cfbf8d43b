// Package telemetry groups the observability surface shared by every
// named limiter in an iolimiterd process.
//
// # Overview
//
// The telemetry package implements structured logging, Prometheus metrics,
// OpenTelemetry distributed tracing, and health check endpoints. It provides
// visibility into runtime behavior while maintaining low overhead.
//
// # Components
//
//   - logging: Structured logging with PII redaction
//   - metrics: Prometheus metrics for drains, bytes granted, and per-client calls
//   - tracing: OpenTelemetry spans around blocking token requests
//   - health: Liveness/readiness HTTP endpoints
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, _ := logging.New(logging.Config{Level: cfg.Telemetry.Logging.Level})
//	collector := metrics.NewCollector(metrics.CollectorOptions{Enabled: cfg.Telemetry.Metrics.Enabled}, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//	checker := health.New(5 * time.Second)
//
//	logger.Info("limiter started", "name", "ingest")
//	collector.RecordDrain("ingest")
//
// # Performance
//
// The telemetry subpackages are designed for minimal overhead relative to
// the cost of a blocking token request:
//
//   - Logging: near-zero when the configured level disables a call site
//   - Metrics: a handful of atomic increments per request
//   - Tracing: a noop tracer when disabled, one span per request otherwise
//
// # PII Protection
//
// When RedactPII is set, the logging subpackage redacts common secret and
// PII shapes from log fields before they reach the configured writer:
//
//   - API keys: sk-abc123 -> sk-***
//   - Emails: user@example.com -> u***@example.com
//   - SSNs: 123-45-6789 -> ***-**-****
//   - IP addresses: 192.168.1.1 -> 192.*.*.*
//
// Custom redaction patterns can be configured via logging.Config.RedactPatterns.
package telemetry
