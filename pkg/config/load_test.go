package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: 10485760
    refill_period: 50ms
    mode: all

telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	lc, ok := cfg.Limiters["ingest"]
	if !ok {
		t.Fatal("expected a limiter named \"ingest\"")
	}
	if lc.RateBytesPerSec != 10485760 {
		t.Errorf("RateBytesPerSec = %d, want 10485760", lc.RateBytesPerSec)
	}
	if lc.RefillPeriod != 50*time.Millisecond {
		t.Errorf("RefillPeriod = %v, want 50ms", lc.RefillPeriod)
	}
	if lc.Mode != "all" {
		t.Errorf("Mode = %q, want %q", lc.Mode, "all")
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: 1024
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	lc := cfg.Limiters["ingest"]
	if lc.RefillPeriod != DefaultRefillPeriod {
		t.Errorf("RefillPeriod = %v, want default %v", lc.RefillPeriod, DefaultRefillPeriod)
	}
	if lc.Mode != DefaultMode {
		t.Errorf("Mode = %q, want default %q", lc.Mode, DefaultMode)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("logging level = %q, want default %q", cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
	}
}

func TestLoadConfigInvalidFails(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: -1
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for a negative rate")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: 1024
telemetry:
  logging:
    level: info
`)

	t.Setenv("IOLIMITER_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("IOLIMITER_LIMITER_INGEST_RATE_BYTES_PER_SEC", "2048")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want %q (env override)", cfg.Telemetry.Logging.Level, "debug")
	}
	if got := cfg.Limiters["ingest"].RateBytesPerSec; got != 2048 {
		t.Errorf("rate bytes per sec = %d, want 2048 (env override)", got)
	}
}

func TestEnvOverridesTakePrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: 1024
    mode: all
`)

	t.Setenv("IOLIMITER_LIMITER_INGEST_MODE", "reads_only")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if got := cfg.Limiters["ingest"].Mode; got != "reads_only" {
		t.Errorf("mode = %q, want %q", got, "reads_only")
	}
}

func TestTracingEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
limiters:
  ingest:
    rate_bytes_per_sec: 1024
telemetry:
  tracing:
    enabled: true
    endpoint: collector:4317
`)

	t.Setenv("IOLIMITER_TELEMETRY_TRACING_SAMPLER", "always")
	t.Setenv("IOLIMITER_TELEMETRY_TRACING_EXPORTER", "otlp")
	t.Setenv("IOLIMITER_TELEMETRY_TRACING_SERVICE_NAME", "iolimiterd-canary")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	tc := cfg.Telemetry.Tracing
	if tc.Sampler != "always" {
		t.Errorf("Sampler = %q, want %q (env override)", tc.Sampler, "always")
	}
	if tc.Exporter != "otlp" {
		t.Errorf("Exporter = %q, want %q (env override)", tc.Exporter, "otlp")
	}
	if tc.ServiceName != "iolimiterd-canary" {
		t.Errorf("ServiceName = %q, want %q (env override)", tc.ServiceName, "iolimiterd-canary")
	}
}
