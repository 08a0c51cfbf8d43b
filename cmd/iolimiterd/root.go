package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "iolimiterd",
	Short: "iolimiterd - multi-tenant byte-denominated I/O rate limiting daemon",
	Long: `iolimiterd runs one or more named, multi-tenant I/O rate limiters from a
single YAML configuration file.

Each named limiter enforces a token-bucket byte budget per refill period,
shared across a fixed set of tenant slots with strict-priority scheduling
within each tenant. iolimiterd exposes Prometheus metrics, liveness and
readiness probes, and a small admin HTTP surface for live rate changes.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
