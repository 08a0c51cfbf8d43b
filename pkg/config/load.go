package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at path, applies
// defaults, validates the result, and returns it. It does not consult
// environment variables; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from path and then applies
// environment variable overrides, which always take precedence over the
// file. Variables follow the naming convention IOLIMITER_SECTION_FIELD
// (e.g. IOLIMITER_TELEMETRY_LOGGING_LEVEL). Per-limiter overrides use
// IOLIMITER_LIMITER_<NAME>_<FIELD>.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("IOLIMITER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_SAMPLER"); val != "" {
		cfg.Telemetry.Tracing.Sampler = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_EXPORTER"); val != "" {
		cfg.Telemetry.Tracing.Exporter = val
	}
	if val := os.Getenv("IOLIMITER_TELEMETRY_TRACING_SERVICE_NAME"); val != "" {
		cfg.Telemetry.Tracing.ServiceName = val
	}

	for name := range cfg.Limiters {
		applyLimiterEnvOverrides(cfg, name)
	}
}

// applyLimiterEnvOverrides applies IOLIMITER_LIMITER_<NAME>_<FIELD>
// overrides for one named limiter. Name is upper-cased and has '-' and '.'
// mapped to '_' to form a valid environment variable segment.
func applyLimiterEnvOverrides(cfg *Config, name string) {
	lc := cfg.Limiters[name]
	prefix := "IOLIMITER_LIMITER_" + envSegment(name) + "_"

	if val := os.Getenv(prefix + "RATE_BYTES_PER_SEC"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			lc.RateBytesPerSec = i
		}
	}
	if val := os.Getenv(prefix + "REFILL_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			lc.RefillPeriod = d
		}
	}
	if val := os.Getenv(prefix + "MODE"); val != "" {
		lc.Mode = val
	}
	if val := os.Getenv(prefix + "SINGLE_BURST_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			lc.SingleBurstBytes = i
		}
	}
	if val := os.Getenv(prefix + "READ_RATE_BYTES_PER_SEC"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			lc.ReadRateBytesPerSec = i
		}
	}

	cfg.Limiters[name] = lc
}

func envSegment(name string) string {
	s := strings.ToUpper(name)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	return s
}
