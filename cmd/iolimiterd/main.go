// iolimiterd is a multi-tenant, byte-denominated I/O rate limiting daemon.
//
// It loads a set of named rate limiters from a YAML configuration file,
// exposes Prometheus metrics, liveness/readiness probes, and a small admin
// HTTP surface for live rate/burst changes, and hot-reloads the
// configuration file on write.
//
// Usage:
//
//	# Start the daemon with default configuration
//	iolimiterd run
//
//	# Start with a custom configuration file
//	iolimiterd run --config /path/to/config.yaml
//
//	# Validate configuration without starting the daemon
//	iolimiterd run --dry-run
//
//	# Show version information
//	iolimiterd version
package main

func main() {
	Execute()
}
