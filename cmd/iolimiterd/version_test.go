package main

import (
	"strings"
	"testing"
)

func TestVersionCommandRuns(t *testing.T) {
	// versionCmd.Run writes to os.Stdout directly rather than cmd.OutOrStdout,
	// so this only verifies it doesn't panic given a nil args slice.
	versionCmd.Run(versionCmd, nil)
}

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version must not be empty")
	}
	if Commit == "" {
		t.Error("Commit must not be empty")
	}
	if BuildTime == "" {
		t.Error("BuildTime must not be empty")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "version"} {
		if !names[want] {
			t.Errorf("rootCmd missing subcommand %q", want)
		}
	}
}

func TestRootCommandUse(t *testing.T) {
	if !strings.HasPrefix(rootCmd.Use, "iolimiterd") {
		t.Errorf("rootCmd.Use = %q, want prefix %q", rootCmd.Use, "iolimiterd")
	}
}
