package config

import "time"

// Config is the top-level configuration for an iolimiterd process: a named
// set of Limiter instances plus the ambient telemetry stack.
type Config struct {
	Limiters  map[string]LimiterConfig `yaml:"limiters"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`
}

// LimiterConfig configures a single named ratelimit.Limiter. Field names and
// units mirror ratelimit.Options directly so LoadConfig's output can be
// handed to ratelimit.New with no further translation beyond the Mode
// string parse.
type LimiterConfig struct {
	// RateBytesPerSec is the target aggregate throughput. Required.
	RateBytesPerSec int64 `yaml:"rate_bytes_per_sec"`

	// RefillPeriod is the interval between successive refills. Defaults
	// to 100ms.
	RefillPeriod time.Duration `yaml:"refill_period"`

	// Fairness is accepted for compatibility but does not affect
	// scheduling; see ratelimit.Options.Fairness. Defaults to 10.
	Fairness int32 `yaml:"fairness"`

	// Mode is one of "reads_only", "writes_only", "all". Defaults to
	// "writes_only".
	Mode string `yaml:"mode"`

	// SingleBurstBytes caps bytes per call. Zero derives the cap from
	// RateBytesPerSec * RefillPeriod.
	SingleBurstBytes int64 `yaml:"single_burst_bytes"`

	// ReadRateBytesPerSec, if positive, gives reads their own nested
	// budget instead of sharing the write budget.
	ReadRateBytesPerSec int64 `yaml:"read_rate_bytes_per_sec"`

	// AutoTuned halves RateBytesPerSec at construction when true.
	AutoTuned bool `yaml:"auto_tuned"`
}

// TelemetryConfig configures the ambient logging, metrics, and tracing
// stack shared by every limiter in the process.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the log/slog-based structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry span export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in exported spans.
	ServiceName string `yaml:"service_name"`

	// Sampler is one of "always", "never", "ratio".
	Sampler     string  `yaml:"sampler"`
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter is one of "otlp", "jaeger", "zipkin". Only "otlp" is
	// currently implemented.
	Exporter string `yaml:"exporter"`

	// Endpoint is the exporter's collector address.
	Endpoint string `yaml:"endpoint"`

	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig configures the OTLP gRPC span exporter.
type OTLPConfig struct {
	Insecure bool          `yaml:"insecure"`
	Timeout  time.Duration `yaml:"timeout"`
}
