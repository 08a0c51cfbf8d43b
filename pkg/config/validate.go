package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the field, e.g. "limiters.ingest.mode".
	Field string

	// Message is a human-readable error message.
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found while validating a
// Config.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks cfg against structural and logical rules, returning a
// ValidationError aggregating every violation found, or nil if cfg is
// valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	for name, lc := range cfg.Limiters {
		errs = append(errs, validateLimiter(name, &lc)...)
	}

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateLimiter(name string, lc *LimiterConfig) []FieldError {
	var errs []FieldError
	path := fmt.Sprintf("limiters.%s", name)

	if lc.RateBytesPerSec <= 0 {
		errs = append(errs, FieldError{path + ".rate_bytes_per_sec", "must be positive"})
	}
	if lc.RefillPeriod <= 0 {
		errs = append(errs, FieldError{path + ".refill_period", "must be positive"})
	}
	if lc.Fairness < 0 || lc.Fairness > 100 {
		errs = append(errs, FieldError{path + ".fairness", "must be between 0 and 100"})
	}
	switch lc.Mode {
	case "reads_only", "writes_only", "all":
	default:
		errs = append(errs, FieldError{path + ".mode", fmt.Sprintf("must be one of reads_only, writes_only, all; got %q", lc.Mode)})
	}
	if lc.SingleBurstBytes < 0 {
		errs = append(errs, FieldError{path + ".single_burst_bytes", "must not be negative"})
	}
	if lc.ReadRateBytesPerSec < 0 {
		errs = append(errs, FieldError{path + ".read_rate_bytes_per_sec", "must not be negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level", fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format", fmt.Sprintf("must be one of json, text; got %q", cfg.Logging.Format)})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{"telemetry.tracing.endpoint", "required when tracing is enabled"})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{"telemetry.tracing.sample_ratio", "must be between 0 and 1"})
	}
	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{"telemetry.tracing.sampler", fmt.Sprintf("must be one of always, never, ratio; got %q", cfg.Tracing.Sampler)})
		}
		switch cfg.Tracing.Exporter {
		case "otlp", "jaeger", "zipkin":
		default:
			errs = append(errs, FieldError{"telemetry.tracing.exporter", fmt.Sprintf("must be one of otlp, jaeger, zipkin; got %q", cfg.Tracing.Exporter)})
		}
	}

	return errs
}
