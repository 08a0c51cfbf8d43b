package config

import "time"

// Default values for configuration fields.
const (
	DefaultRefillPeriod = 100 * time.Millisecond
	DefaultFairness     = 10
	DefaultMode         = "writes_only"

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	DefaultTracingEnabled     = false
	DefaultTracingServiceName = "iolimiterd"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.05
	DefaultTracingExporter    = "otlp"
)

// ApplyDefaults fills in zero-valued fields of cfg with the defaults above.
// It is applied once right after YAML parsing, before env overrides and
// validation.
func ApplyDefaults(cfg *Config) {
	for name, lc := range cfg.Limiters {
		applyLimiterDefaults(&lc)
		cfg.Limiters[name] = lc
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
		// A bare zero-valued MetricsConfig ("metrics:" omitted entirely)
		// means "use defaults", so Enabled defaults on too. An explicit
		// "enabled: false" is indistinguishable from the zero value here,
		// so it is also turned on when no path is set.
		if !cfg.Telemetry.Metrics.Enabled {
			cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
		}
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
}

func applyLimiterDefaults(lc *LimiterConfig) {
	if lc.RefillPeriod == 0 {
		lc.RefillPeriod = DefaultRefillPeriod
	}
	if lc.Fairness == 0 {
		lc.Fairness = DefaultFairness
	}
	if lc.Mode == "" {
		lc.Mode = DefaultMode
	}
}
