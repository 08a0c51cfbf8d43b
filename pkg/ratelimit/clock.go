package ratelimit

import "time"

// Clock is the monotonic time source the Limiter depends on. The Limiter
// never reads wall-clock time directly so that tests can substitute a
// virtual clock and drive refill boundaries deterministically.
type Clock interface {
	// NowMicros returns a monotonically non-decreasing microsecond
	// timestamp. Only differences between two calls are meaningful.
	NowMicros() int64

	// NewTimer returns a Timer that fires once after d.
	NewTimer(d time.Duration) Timer
}

// Timer is the minimal interface the coordination loop needs from a
// one-shot timer.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// systemClock is the default Clock, backed by the runtime's monotonic
// clock via time.Now().
type systemClock struct{}

// SystemClock is the production Clock implementation.
var SystemClock Clock = systemClock{}

func (systemClock) NowMicros() int64 {
	return time.Now().UnixMicro()
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time { return s.t.C }
func (s *systemTimer) Stop() bool          { return s.t.Stop() }
