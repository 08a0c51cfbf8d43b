package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"iolimiterd/pkg/cli"
	"iolimiterd/pkg/config"
	"iolimiterd/pkg/ratelimit"
	"iolimiterd/pkg/telemetry/health"
	"iolimiterd/pkg/telemetry/logging"
	"iolimiterd/pkg/telemetry/metrics"
	"iolimiterd/pkg/telemetry/tracing"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the iolimiterd daemon",
	RunE:  runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate configuration and exit")
	rootCmd.AddCommand(runCmd)
}

// daemon holds every limiter constructed from the loaded config plus the
// wiring needed to reload and shut them down together.
type daemon struct {
	mu       sync.RWMutex
	limiters map[string]*ratelimit.Limiter
	configs  map[string]config.LimiterConfig

	logger    *logging.Logger
	collector *metrics.Collector
	health    *health.Checker
	tracer    *tracing.Tracer
}

// statsAdapter bridges a ratelimit.Limiter's StatsSink calls to a named
// series on the process-wide Prometheus collector, keeping the core
// package free of the metrics dependency (pkg/ratelimit/stats.go).
type statsAdapter struct {
	collector *metrics.Collector
	name      string
}

func (a statsAdapter) RecordTick(t ratelimit.Tick) {
	if t == ratelimit.TickRateLimiterDrains {
		a.collector.RecordDrain(a.name)
	}
}

func (a statsAdapter) RecordRequest(pri ratelimit.Priority, op ratelimit.OpType) {
	a.collector.RecordRequest(a.name, pri.String(), op.String())
}

func (a statsAdapter) RecordGrant(pri ratelimit.Priority, bytes int64) {
	a.collector.RecordBytesGranted(a.name, pri.String(), bytes)
}

func (a statsAdapter) RecordCall(clientID ratelimit.ClientID) {
	a.collector.RecordClientCall(a.name, int(clientID))
}

func (a statsAdapter) RecordAvailable(clientID ratelimit.ClientID, bytes int64) {
	a.collector.UpdateClientAvailable(a.name, int(clientID), bytes)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	cfg := config.GetConfig()

	if dryRun {
		fmt.Printf("configuration %q is valid: %d limiter(s)\n", cfgFile, len(cfg.Limiters))
		return nil
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		RedactPII: true,
	})
	if err != nil {
		return fmt.Errorf("constructing logger: %w", err)
	}
	defer logger.Shutdown()

	collector := metrics.NewCollector(metrics.CollectorOptions{
		Enabled: cfg.Telemetry.Metrics.Enabled,
	}, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("constructing tracer: %w", err)
	}
	defer tracer.Shutdown(context.Background())

	checker := health.New(5 * time.Second)

	d := &daemon{
		limiters:  make(map[string]*ratelimit.Limiter),
		configs:   make(map[string]config.LimiterConfig),
		logger:    logger,
		collector: collector,
		health:    checker,
		tracer:    tracer,
	}

	if err := d.buildLimiters(cfg); err != nil {
		return fmt.Errorf("constructing limiters: %w", err)
	}
	defer d.closeAll()

	mux := http.NewServeMux()
	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
	}
	handlers := checker.CreateHandlers(Version, Commit, BuildTime)
	mux.HandleFunc("/healthz", handlers.LivenessHandler)
	mux.HandleFunc("/readyz", handlers.ReadinessHandler)
	mux.HandleFunc("/version", handlers.VersionHandler)
	mux.HandleFunc("POST /limiters/{name}/rate", d.handleSetRate)
	mux.HandleFunc("GET /limiters/{name}/stats", d.handleStats)
	mux.HandleFunc("GET /limiters", d.handleListLimiters)
	mux.HandleFunc("GET /debug/trace", d.handleDebugTrace)

	srv := &http.Server{
		Addr:    ":9090",
		Handler: tracing.HTTPMiddleware(d.withRequestID(mux)),
	}

	serveErrs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrs <- err
		}
	}()

	watcher, err := d.watchConfig(cfgFile)
	if err != nil {
		logger.Warn("config hot-reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	sigCh := cli.WaitForShutdown()
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serveErrs:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// buildLimiters constructs one ratelimit.Limiter per entry in cfg.Limiters.
func (d *daemon) buildLimiters(cfg *config.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, lc := range cfg.Limiters {
		mode, err := ratelimit.ParseMode(lc.Mode)
		if err != nil {
			return fmt.Errorf("limiter %q: %w", name, err)
		}

		refillPeriodUs := lc.RefillPeriod.Microseconds()
		l := ratelimit.New(ratelimit.Options{
			RateBytesPerSec:     lc.RateBytesPerSec,
			RefillPeriodMicros:  refillPeriodUs,
			Fairness:            lc.Fairness,
			Mode:                mode,
			AutoTuned:           lc.AutoTuned,
			SingleBurstBytes:    lc.SingleBurstBytes,
			ReadRateBytesPerSec: lc.ReadRateBytesPerSec,
			Stats:               statsAdapter{collector: d.collector, name: name},
			Tracer:              tracing.NewRequestTracer(d.tracer, name, mode.String(), refillPeriodUs),
		})

		d.limiters[name] = l
		d.configs[name] = lc

		// A Stats() call that returns proves the coordination mutex isn't
		// permanently held by a wedged refill goroutine.
		limiter := l
		d.health.RegisterCheck("limiter:"+name, func(ctx context.Context) error {
			limiter.Stats()
			return nil
		})
	}

	return nil
}

func (d *daemon) closeAll() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for name, l := range d.limiters {
		if err := l.Close(); err != nil {
			d.logger.Error("closing limiter", "limiter", name, "error", err)
		}
	}
}

// watchConfig reloads rate/burst settings on every limiter named in cfg
// whenever the config file changes on disk, without restarting the
// process or dropping in-flight requests.
func (d *daemon) watchConfig(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for event := range watcher.Events {
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := config.ReloadConfig(path); err != nil {
				d.logger.Warn("config reload failed", "error", err)
				continue
			}
			d.applyReload(config.GetConfig())
		}
	}()

	return watcher, nil
}

// applyReload pushes a freshly reloaded config's per-limiter rate/burst
// onto already-running limiters. It never adds or removes limiters: doing
// so would require coordinating in-flight Close() calls with new New()
// calls and is out of scope for a live reload.
func (d *daemon) applyReload(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, l := range d.limiters {
		lc, ok := cfg.Limiters[name]
		if !ok {
			continue
		}
		if lc.RateBytesPerSec != d.configs[name].RateBytesPerSec {
			l.SetBytesPerSecond(lc.RateBytesPerSec)
		}
		if lc.SingleBurstBytes != d.configs[name].SingleBurstBytes {
			if err := l.SetSingleBurstBytes(lc.SingleBurstBytes); err != nil {
				d.logger.Warn("rejected reloaded burst size", "limiter", name, "error", err)
				continue
			}
		}
		d.configs[name] = lc
		d.logger.Info("reloaded limiter", "limiter", name, "rate_bytes_per_sec", lc.RateBytesPerSec)
	}
}

// withRequestID assigns every admin request a correlation ID: a fresh UUID
// unless the caller already supplied one via X-Request-Id. The ID is
// attached to the request context for both structured logging
// (pkg/telemetry/logging) and span attributes (pkg/telemetry/tracing), and
// echoed back in the response header so a caller can correlate its own
// logs against the daemon's.
func (d *daemon) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		ctx := logging.WithRequestID(r.Context(), id)
		ctx = tracing.ContextWithRequestID(ctx, id)

		d.logger.InfoContext(ctx, "admin request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleDebugTrace surfaces how the incoming request's W3C trace-context
// headers were parsed, for diagnosing propagation issues against upstream
// callers without needing a full trace backend.
func (d *daemon) handleDebugTrace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tracing.PropagationDebugInfo(r.Header))
}

type rateUpdateRequest struct {
	RateBytesPerSec  int64 `json:"rate_bytes_per_sec"`
	SingleBurstBytes int64 `json:"single_burst_bytes"`
}

// handleSetRate implements the unauthenticated admin surface for live rate
// changes: POST /limiters/{name}/rate with a JSON body.
func (d *daemon) handleSetRate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	d.mu.RLock()
	l, ok := d.limiters[name]
	d.mu.RUnlock()
	if !ok {
		http.Error(w, fmt.Sprintf("unknown limiter %q", name), http.StatusNotFound)
		return
	}

	var req rateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.RateBytesPerSec > 0 {
		l.SetBytesPerSecond(req.RateBytesPerSec)
	}
	if req.SingleBurstBytes > 0 {
		if err := l.SetSingleBurstBytes(req.SingleBurstBytes); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	d.mu.Lock()
	lc := d.configs[name]
	if req.RateBytesPerSec > 0 {
		lc.RateBytesPerSec = req.RateBytesPerSec
	}
	if req.SingleBurstBytes > 0 {
		lc.SingleBurstBytes = req.SingleBurstBytes
	}
	d.configs[name] = lc
	d.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleListLimiters returns the names of every configured limiter, used by
// the "stats" CLI subcommand to discover what to poll when no --limiter
// filter is given.
func (d *daemon) handleListLimiters(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	names := make([]string, 0, len(d.limiters))
	for name := range d.limiters {
		names = append(names, name)
	}
	d.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(names)
}

// handleStats exposes a limiter's in-process Snapshot as JSON, distinct
// from the Prometheus /metrics surface: it is meant for quick interactive
// inspection rather than scraping.
func (d *daemon) handleStats(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	d.mu.RLock()
	l, ok := d.limiters[name]
	d.mu.RUnlock()
	if !ok {
		http.Error(w, fmt.Sprintf("unknown limiter %q", name), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(l.Stats())
}
