package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"iolimiterd/pkg/cli"
	"iolimiterd/pkg/ratelimit"

	"github.com/spf13/cobra"
)

var (
	statsAddr    string
	statsLimiter string
	statsFormat  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch running limiter statistics from a live iolimiterd admin surface",
	Long: `stats polls a running iolimiterd process's admin HTTP surface
(GET /limiters, GET /limiters/{name}/stats) and prints each limiter's
ratelimit.Snapshot in the requested output format.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsAddr, "addr", "http://localhost:9090", "admin HTTP address of a running iolimiterd")
	statsCmd.Flags().StringVar(&statsLimiter, "limiter", "", "only fetch this named limiter (default: all)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "output format: text or json (csv returns an error)")
	rootCmd.AddCommand(statsCmd)
}

// limiterStatsClient fetches Snapshots from a running daemon's admin
// surface. It is the thin HTTP counterpart to daemon.handleStats /
// daemon.handleListLimiters in run.go.
type limiterStatsClient struct {
	addr   string
	client *http.Client
}

func newLimiterStatsClient(addr string) *limiterStatsClient {
	return &limiterStatsClient{addr: addr, client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *limiterStatsClient) listLimiters() ([]string, error) {
	resp, err := c.client.Get(c.addr + "/limiters")
	if err != nil {
		return nil, fmt.Errorf("listing limiters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing limiters: unexpected status %s", resp.Status)
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("decoding limiter list: %w", err)
	}
	return names, nil
}

func (c *limiterStatsClient) fetchStats(name string) (ratelimit.Snapshot, error) {
	resp, err := c.client.Get(c.addr + "/limiters/" + name + "/stats")
	if err != nil {
		return ratelimit.Snapshot{}, fmt.Errorf("fetching stats for %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ratelimit.Snapshot{}, fmt.Errorf("fetching stats for %q: unexpected status %s", name, resp.Status)
	}

	var snap ratelimit.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return ratelimit.Snapshot{}, fmt.Errorf("decoding stats for %q: %w", name, err)
	}
	return snap, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	client := newLimiterStatsClient(statsAddr)

	names := []string{statsLimiter}
	if statsLimiter == "" {
		var err error
		names, err = client.listLimiters()
		if err != nil {
			return cli.NewCommandError("stats", err)
		}
	}

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(names)))

	results := make(map[string]ratelimit.Snapshot, len(names))
	for i, name := range names {
		snap, err := client.fetchStats(name)
		if err != nil {
			progress.Error(err)
			return cli.NewCommandError("stats", err)
		}
		results[name] = snap
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	formatter := cli.NewFormatter(cli.OutputFormat(statsFormat))
	if err := formatter.FormatTo(cmd.OutOrStdout(), results); err != nil {
		return cli.NewCommandError("stats", err)
	}
	return nil
}
