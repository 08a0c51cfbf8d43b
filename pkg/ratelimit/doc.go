// Package ratelimit implements a multi-tenant, byte-denominated I/O rate
// limiter.
//
// # Overview
//
// A Limiter caps aggregate throughput at a configured rate while isolating
// a fixed set of logical clients from one another (per-client token
// buckets) and enforcing strict priority ordering within each client.
// Callers ask to transfer N bytes; the Limiter either grants immediately
// from available quota or blocks the caller until the next refill.
//
//	l := ratelimit.New(ratelimit.Options{
//		RateBytesPerSec: 10 << 20, // 10 MiB/s
//	})
//	defer l.Close()
//
//	granted := l.RequestToken(ctx, 512<<10, 0, ratelimit.User, ratelimit.Write)
//
// # Coordination
//
// Exactly one queued goroutine at a time sleeps on the shared refill
// timer ("leader"); the rest sleep on their own per-request wakeup
// channel ("followers") until either granted or tapped to become the
// next leader. See coordinator.go for the full protocol.
//
// # Thread safety
//
// All exported methods are safe for concurrent use. A single mutex
// guards queues and bucket state; the rate and burst fields are atomic
// so GetSingleBurstBytes and RequestToken's clamp can be read without
// taking the lock.
package ratelimit
