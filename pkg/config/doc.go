// Package config provides configuration management for iolimiterd.
//
// Configuration is loaded from a YAML file with environment variable
// overrides, following the same precedence the rest of the ambient stack
// uses: defaults, then file, then environment, then validation.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Variables follow IOLIMITER_SECTION_FIELD, e.g.
// IOLIMITER_TELEMETRY_LOGGING_LEVEL, and IOLIMITER_LIMITER_<NAME>_<FIELD>
// for a specific named limiter (e.g. IOLIMITER_LIMITER_INGEST_RATE_BYTES_PER_SEC).
//
// # Singleton Pattern
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// For tests, prefer constructing a *Config directly over the singleton.
package config
