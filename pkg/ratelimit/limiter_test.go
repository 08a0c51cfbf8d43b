package ratelimit

import (
	"context"
	"math"
	"testing"
)

func TestComputeRefillBytesPerPeriod(t *testing.T) {
	// 10 MB/s, 100ms period -> 1 MB per period.
	if got := computeRefillBytesPerPeriod(10<<20, 100_000); got != 1<<20 {
		t.Errorf("got %d, want %d", got, 1<<20)
	}

	// Overflow guard: rate = INT64_MAX, period = 1s.
	maxInt64 := int64(math.MaxInt64)
	got := computeRefillBytesPerPeriod(maxInt64, 1_000_000)
	want := maxInt64 / microsPerSecond
	if got != want {
		t.Errorf("overflow case: got %d, want %d", got, want)
	}
}

func TestSetBytesPerSecondIdempotent(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1 << 20})
	defer l.Close()

	l.SetBytesPerSecond(5 << 20)
	first := l.refillBytesPerPeriod.load()

	l.SetBytesPerSecond(5 << 20)
	second := l.refillBytesPerPeriod.load()

	if first != second {
		t.Errorf("SetBytesPerSecond not idempotent: %d != %d", first, second)
	}
}

func TestGetSingleBurstBytes(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1 << 20, RefillPeriodMicros: 100_000})
	defer l.Close()

	// No explicit burst: derives from refill bytes per period.
	if got, want := l.GetSingleBurstBytes(), l.refillBytesPerPeriod.load(); got != want {
		t.Errorf("GetSingleBurstBytes() = %d, want %d", got, want)
	}

	if err := l.SetSingleBurstBytes(4096); err != nil {
		t.Fatalf("SetSingleBurstBytes: %v", err)
	}
	if got := l.GetSingleBurstBytes(); got != 4096 {
		t.Errorf("GetSingleBurstBytes() = %d, want 4096", got)
	}
}

func TestSetSingleBurstBytesRejectsNegative(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1 << 20})
	defer l.Close()

	if err := l.SetSingleBurstBytes(-1); err != ErrInvalidArgument {
		t.Fatalf("SetSingleBurstBytes(-1) = %v, want ErrInvalidArgument", err)
	}
	// No side effect on failure.
	if got := l.rawSingleBurstBytes.load(); got != 0 {
		t.Errorf("rawSingleBurstBytes changed on failed call: %d", got)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		mode Mode
		op   OpType
		want bool
	}{
		{All, Read, true}, {All, Write, true},
		{ReadsOnly, Read, true}, {ReadsOnly, Write, false},
		{WritesOnly, Read, false}, {WritesOnly, Write, true},
	}
	for _, c := range cases {
		l := New(Options{RateBytesPerSec: 1 << 20, Mode: c.mode})
		if got := l.IsRateLimited(c.op); got != c.want {
			t.Errorf("mode=%v op=%v: IsRateLimited() = %v, want %v", c.mode, c.op, got, c.want)
		}
		l.Close()
	}
}

func TestRequestTokenBypassOnTotalPriority(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1024, Mode: All})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	got := l.RequestToken(ctx, 1<<30, 0, Total, Write)
	if got != 1<<30 {
		t.Errorf("RequestToken with Total priority = %d, want unchanged %d", got, 1<<30)
	}
	snap := l.Stats()
	for p, n := range snap.TotalRequests {
		if n != 0 {
			t.Errorf("priority %d: total requests = %d, want 0 (bypass must not touch counters)", p, n)
		}
	}
}

func TestRequestTokenBypassWhenNotRateLimited(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1024, Mode: WritesOnly})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	got := l.RequestToken(ctx, 2048, 0, User, Read)
	if got != 2048 {
		t.Errorf("RequestToken for non-rate-limited op = %d, want unchanged 2048", got)
	}
}

func TestRequestTokenAlignment(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1 << 30, Mode: All, SingleBurstBytes: 1000})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	got := l.RequestToken(ctx, 950, 128, User, Write)

	if got%128 != 0 {
		t.Errorf("result %d is not a multiple of alignment 128", got)
	}
	if got < 128 {
		t.Errorf("result %d is below one alignment unit", got)
	}
	if got > 950 || got > 1000 {
		t.Errorf("result %d exceeds min(requested, burst)", got)
	}
}

func TestRequestTokenAlignmentNeverBelowOneUnit(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1 << 30, Mode: All, SingleBurstBytes: 100})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	// requested (50) truncated to a multiple of 128 would floor to 0;
	// the alignment law requires at least one alignment unit.
	got := l.RequestToken(ctx, 50, 128, User, Write)
	if got != 128 {
		t.Errorf("RequestToken() = %d, want 128 (one alignment unit)", got)
	}
}

func TestRequestFastPath(t *testing.T) {
	// Scenario 1 from spec.md §8: rate = 10MB/s -> 1MB refill. A single
	// 512KB request at construction time triggers an immediate inline
	// refill (next_refill_us starts at "now"), so the fast-path/slow-path
	// boundary is crossed synchronously without any real wait.
	l := New(Options{RateBytesPerSec: 10 << 20, RefillPeriodMicros: 100_000, Mode: All})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	l.Request(ctx, 512<<10, User, Write)

	snap := l.Stats()
	if snap.AvailableBytes[0] != (1<<20)-(512<<10) {
		t.Errorf("available[0] = %d, want %d", snap.AvailableBytes[0], (1<<20)-(512<<10))
	}
	if snap.TotalBytesThrough[User] != 512<<10 {
		t.Errorf("total bytes through[User] = %d, want %d", snap.TotalBytesThrough[User], 512<<10)
	}
}

func TestRequestSilentBypassOnInvalidClientID(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1024, Mode: All})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), ClientIDInvalid)
	l.Request(ctx, 100, User, Write)

	snap := l.Stats()
	for c, n := range snap.CallsPerClient {
		if n != 0 {
			t.Errorf("client %d: calls = %d, want 0 (invalid client id must not be accounted)", c, n)
		}
	}
}

func TestRequestZeroBytesReturnsImmediately(t *testing.T) {
	l := New(Options{RateBytesPerSec: 1024, Mode: All})
	defer l.Close()

	ctx := ContextWithClientID(context.Background(), 0)
	l.Request(ctx, 0, User, Write)

	l.mu.Lock()
	for c := 0; c < NumClients; c++ {
		for p := 0; p < numPriorities; p++ {
			if !l.queues[c][p].empty() {
				l.mu.Unlock()
				t.Fatalf("zero-byte request left an entry queued at (%d,%d)", c, p)
			}
		}
	}
	l.mu.Unlock()
}
