package ratelimit

import (
	"context"
	"math/rand/v2"
	"sync"
)

const microsPerSecond = 1_000_000

// Options configures a new Limiter. Zero-value fields fall back to the
// defaults listed below, matching the reference implementation's factory
// defaults (spec.md §6).
type Options struct {
	// RateBytesPerSec is the target aggregate throughput. Required.
	RateBytesPerSec int64

	// RefillPeriodMicros is the interval between successive refills.
	// Defaults to 100,000 (100ms).
	RefillPeriodMicros int64

	// Fairness is accepted for API compatibility with the reference
	// implementation but, per spec.md §9, does not affect scheduling:
	// priority iteration within a client is always strict HIGH->LOW.
	// Clamped to <= 100. Defaults to 10.
	Fairness int32

	// Mode selects which OpTypes are rate-limited. Defaults to
	// WritesOnly, matching the reference factory default.
	Mode Mode

	// Clock supplies monotonic time. Defaults to SystemClock.
	Clock Clock

	// AutoTuned halves RateBytesPerSec at construction when true.
	AutoTuned bool

	// SingleBurstBytes caps bytes per call explicitly. Zero means derive
	// the cap from RateBytesPerSec * RefillPeriodMicros.
	SingleBurstBytes int64

	// ReadRateBytesPerSec, if positive, causes New to construct a nested
	// read-only limiter (100ms refill period, WritesOnly mode internally,
	// no further nesting) to which Read-typed requests are forwarded.
	// See spec.md §4.2.
	ReadRateBytesPerSec int64

	// Stats receives drain tick notifications. Defaults to NopStats.
	Stats StatsSink

	// Tracer wraps each blocking Request call in a span. Defaults to
	// NopTracer.
	Tracer RequestTracer

	// Seed seeds the per-refill client permutation RNG. Defaults to a
	// time-derived seed; tests that need determinism should set this
	// explicitly (spec.md §9).
	Seed uint64
}

// Limiter is a multi-tenant, byte-denominated I/O rate limiter. See the
// package doc comment for an overview.
type Limiter struct {
	refillPeriodUs int64
	mode           Mode
	clock          Clock
	stats          StatsSink
	tracer         RequestTracer
	fairness       int32

	rateBytesPerSec      atomicI64
	refillBytesPerPeriod atomicI64
	rawSingleBurstBytes  atomicI64

	mu                     sync.Mutex
	nextRefillUs           int64
	available              [NumClients]int64
	queues                 [NumClients][numPriorities]queue
	stop                   bool
	waitUntilRefillPending bool
	requestsToWait         int
	exitCv                 *sync.Cond

	rng *rand.Rand

	totalRequests     [numPriorities]int64
	totalBytesThrough [numPriorities]int64
	callsPerClient    [NumClients]int64
	totalCalls        int64

	readLimiter *Limiter
}

// New constructs a Limiter from opts. The returned Limiter must eventually
// be released with Close.
func New(opts Options) *Limiter {
	if opts.RefillPeriodMicros == 0 {
		opts.RefillPeriodMicros = 100_000
	}
	if opts.Fairness == 0 {
		opts.Fairness = 10
	}
	if opts.Fairness > 100 {
		opts.Fairness = 100
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Stats == nil {
		opts.Stats = NopStats{}
	}
	if opts.Tracer == nil {
		opts.Tracer = NopTracer{}
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(opts.Clock.NowMicros())
	}

	rate := opts.RateBytesPerSec
	if opts.AutoTuned {
		rate /= 2
	}

	l := &Limiter{
		refillPeriodUs: opts.RefillPeriodMicros,
		mode:           opts.Mode,
		clock:          opts.Clock,
		stats:          opts.Stats,
		tracer:         opts.Tracer,
		fairness:       opts.Fairness,
		nextRefillUs:   opts.Clock.NowMicros(),
		rng:            rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1|1)),
	}
	l.exitCv = sync.NewCond(&l.mu)
	l.rateBytesPerSec.store(rate)
	l.refillBytesPerPeriod.store(computeRefillBytesPerPeriod(rate, l.refillPeriodUs))
	l.rawSingleBurstBytes.store(opts.SingleBurstBytes)

	if opts.ReadRateBytesPerSec > 0 {
		l.readLimiter = New(Options{
			RateBytesPerSec:    opts.ReadRateBytesPerSec,
			RefillPeriodMicros: 100_000,
			Fairness:           10,
			Mode:               WritesOnly,
			Clock:              opts.Clock,
			AutoTuned:          false,
			Stats:              opts.Stats,
			Tracer:             opts.Tracer,
			Seed:               opts.Seed ^ 0x9e3779b97f4a7c15,
		})
	}

	return l
}

// computeRefillBytesPerPeriod implements spec.md §4.6, including the
// overflow saturation guard.
func computeRefillBytesPerPeriod(ratePerSec, periodUs int64) int64 {
	if ratePerSec <= 0 {
		return 0
	}
	const maxInt64 = int64(1<<63 - 1)
	if maxInt64/ratePerSec < periodUs {
		return maxInt64 / microsPerSecond
	}
	return ratePerSec * periodUs / microsPerSecond
}

// GetSingleBurstBytes returns the configured per-call byte cap: the
// explicit SingleBurstBytes if set, otherwise one refill period's worth
// of tokens.
func (l *Limiter) GetSingleBurstBytes() int64 {
	if b := l.rawSingleBurstBytes.load(); b != 0 {
		return b
	}
	return l.refillBytesPerPeriod.load()
}

// SetBytesPerSecond recomputes and stores the target rate and derived
// refill-bytes-per-period. Takes effect on the next refill.
func (l *Limiter) SetBytesPerSecond(rate int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setBytesPerSecondLocked(rate)
}

func (l *Limiter) setBytesPerSecondLocked(rate int64) {
	l.rateBytesPerSec.store(rate)
	l.refillBytesPerPeriod.store(computeRefillBytesPerPeriod(rate, l.refillPeriodUs))
}

// SetSingleBurstBytes sets an explicit per-call byte cap. A negative value
// is rejected with ErrInvalidArgument and leaves state unchanged.
func (l *Limiter) SetSingleBurstBytes(bytes int64) error {
	if bytes < 0 {
		return ErrInvalidArgument
	}
	l.rawSingleBurstBytes.store(bytes)
	return nil
}

// IsRateLimited reports whether op is subject to rate limiting under the
// configured Mode.
func (l *Limiter) IsRateLimited(op OpType) bool {
	switch l.mode {
	case All:
		return true
	case WritesOnly:
		return op == Write
	case ReadsOnly:
		return op == Read
	default:
		return false
	}
}

// RequestToken is the entry point used by storage/I/O layers. If pri is
// Total, or op is not rate-limited under the configured Mode, bytes is
// returned unchanged without touching any queue or counter (spec.md §4.1,
// §7 SilentBypass). Otherwise bytes is clamped to the single-burst cap,
// optionally rounded down to an alignment boundary, and the adjusted
// count is requested and returned.
func (l *Limiter) RequestToken(ctx context.Context, bytes int64, alignment int64, pri Priority, op OpType) int64 {
	if pri == Total || !l.IsRateLimited(op) {
		return bytes
	}

	if burst := l.GetSingleBurstBytes(); bytes > burst {
		bytes = burst
	}
	if alignment > 0 {
		truncated := (bytes / alignment) * alignment
		if truncated < alignment {
			truncated = alignment
		}
		bytes = truncated
	}

	l.Request(ctx, bytes, pri, op)
	return bytes
}

// Stats returns a snapshot of the limiter's diagnostic counters. These
// participate in no correctness invariant; they exist purely for
// observability (spec.md §9).
func (l *Limiter) Stats() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		TotalRequests:     l.totalRequests,
		TotalBytesThrough: l.totalBytesThrough,
		CallsPerClient:    l.callsPerClient,
		TotalCalls:        l.totalCalls,
		AvailableBytes:    l.available,
	}
}

// Close begins shutdown: no new request is admitted, every already-queued
// request is woken and returns (possibly unsatisfied), and Close blocks
// until all of them have exited (spec.md §4.7, invariant 6).
func (l *Limiter) Close() error {
	if l.readLimiter != nil {
		defer l.readLimiter.Close()
	}

	l.mu.Lock()
	l.stop = true

	sum := 0
	for c := 0; c < NumClients; c++ {
		for p := numPriorities - 1; p >= 0; p-- {
			sum += l.queues[c][p].len()
		}
	}
	l.requestsToWait = sum

	for c := 0; c < NumClients; c++ {
		for p := numPriorities - 1; p >= 0; p-- {
			for _, r := range l.queues[c][p].items {
				r.signal()
			}
		}
	}

	for l.requestsToWait > 0 {
		l.exitCv.Wait()
	}
	l.mu.Unlock()
	return nil
}
