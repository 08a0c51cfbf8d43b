package ratelimit

import "sync/atomic"

// atomicI64 is a thin wrapper for the handful of int64 fields the Limiter
// must expose to lock-free readers (rate, derived refill bytes, raw burst
// cap — spec.md §5).
type atomicI64 struct {
	v atomic.Int64
}

func (a *atomicI64) load() int64     { return a.v.Load() }
func (a *atomicI64) store(val int64) { a.v.Store(val) }
