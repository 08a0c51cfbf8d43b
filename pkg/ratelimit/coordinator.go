package ratelimit

import (
	"context"
	"time"
)

// Request is the blocking request primitive (spec.md §4.3). It resolves
// the caller's client ID from ctx, draws from the fast path if possible,
// and otherwise enqueues and participates in the coordination loop until
// granted or the Limiter is closed.
//
// If op is Read and a nested read limiter is configured, the call is
// forwarded there instead of running the local logic (spec.md §4.2).
func (l *Limiter) Request(ctx context.Context, bytes int64, pri Priority, op OpType) {
	if op == Read && l.readLimiter != nil {
		l.readLimiter.requestLocal(ctx, bytes, pri, op)
		return
	}
	l.requestLocal(ctx, bytes, pri, op)
}

func (l *Limiter) requestLocal(ctx context.Context, bytes int64, pri Priority, op OpType) {
	rawID := ClientIDFromContext(ctx)
	clientID, ok := resolveClientID(rawID)
	if !ok {
		// ClientIDInvalid: SilentBypass per spec.md §7.
		return
	}
	if bytes < 0 {
		bytes = 0
	}
	originalBytes := bytes

	_, span := l.tracer.StartRequest(ctx, clientID, pri, op, originalBytes)
	defer span.End()

	l.mu.Lock()

	if l.stop {
		l.mu.Unlock()
		return
	}

	l.totalRequests[pri]++
	l.callsPerClient[clientID]++
	l.totalCalls++
	l.stats.RecordRequest(pri, op)
	l.stats.RecordCall(clientID)

	// Fast path: draw directly from the client's bucket.
	if l.available[clientID] > 0 {
		grant := l.available[clientID]
		if bytes < grant {
			grant = bytes
		}
		l.available[clientID] -= grant
		bytes -= grant
		l.totalBytesThrough[pri] += grant
		if grant > 0 {
			l.stats.RecordGrant(pri, grant)
		}
	}

	if bytes == 0 {
		span.SetGranted(originalBytes)
		l.mu.Unlock()
		return
	}

	// Slow path: enqueue and coordinate.
	req := newRequest(bytes)
	l.queues[clientID][pri].pushBack(req)

	for !l.stop && req.remaining > 0 {
		l.coordinationStepLocked(req, span)
		if req.remaining == 0 {
			l.handOffLeaderLocked()
		}
	}

	span.SetGranted(originalBytes - req.remaining)

	// A request granted on the same iteration Close() observed it as still
	// queued decrements requestsToWait here even though it was never
	// counted among the requests Close() is waiting on; this mirrors a
	// latent race in the original's shutdown path rather than fixing it
	// (spec.md §4.3 step 6).
	if l.stop {
		l.requestsToWait--
		l.exitCv.Signal()
	}

	l.mu.Unlock()
}

// coordinationStepLocked runs one iteration of the leader-election
// coordination loop described in spec.md §4.4. Called with l.mu held; it
// releases the mutex while a goroutine would otherwise block (timed or
// untimed wait) and reacquires it before returning.
func (l *Limiter) coordinationStepLocked(req *request, span RequestSpan) {
	timeUntilRefill := l.nextRefillUs - l.clock.NowMicros()

	if timeUntilRefill <= 0 {
		l.refillAndGrantLocked()
		return
	}

	if l.waitUntilRefillPending {
		// Follower: trust the leader or a hand-off to wake us.
		l.mu.Unlock()
		<-req.wake
		l.mu.Lock()
		return
	}

	// Leader: perform the timed wait for the next refill.
	l.waitUntilRefillPending = true
	l.stats.RecordTick(TickRateLimiterDrains)
	span.RecordDrainWait()
	timer := l.clock.NewTimer(time.Duration(timeUntilRefill) * time.Microsecond)
	l.mu.Unlock()
	select {
	case <-req.wake:
	case <-timer.C():
	}
	timer.Stop()
	l.mu.Lock()
	l.waitUntilRefillPending = false
}

// handOffLeaderLocked wakes the head of the highest-priority non-empty
// queue, found by scanning clients in index order and priorities
// high-to-low, so coordination continues after the caller's own request
// has been satisfied. Called with l.mu held.
func (l *Limiter) handOffLeaderLocked() {
	for c := 0; c < NumClients; c++ {
		for p := numPriorities - 1; p >= 0; p-- {
			q := &l.queues[c][p]
			if !q.empty() {
				q.front().signal()
				return
			}
		}
	}
}

// refillAndGrantLocked implements spec.md §4.5: advance the refill clock,
// reset every client's bucket (no carry-over — see SPEC_FULL.md /
// DESIGN.md on the source's carry-over comment discrepancy), then grant
// queued requests in a random per-refill client order and strict
// high-to-low priority order within each client. Called with l.mu held.
func (l *Limiter) refillAndGrantLocked() {
	l.nextRefillUs = l.clock.NowMicros() + l.refillPeriodUs

	refill := l.refillBytesPerPeriod.load()
	for c := 0; c < NumClients; c++ {
		l.available[c] = refill
	}

	perm := l.randomClientPermutationLocked()

	for _, c := range perm {
	priorityLoop:
		for p := numPriorities - 1; p >= 0; p-- {
			q := &l.queues[c][p]
			for !q.empty() {
				head := q.front()
				if l.available[c] < head.remaining {
					head.remaining -= l.available[c]
					l.available[c] = 0
					break priorityLoop
				}
				l.available[c] -= head.remaining
				head.remaining = 0
				l.totalBytesThrough[p] += head.original
				l.stats.RecordGrant(Priority(p), head.original)
				q.popFront()
				head.signal()
			}
		}
	}

	for c := 0; c < NumClients; c++ {
		l.stats.RecordAvailable(ClientID(c), l.available[c])
	}
}

// randomClientPermutationLocked returns a fresh random permutation of
// [0, NumClients) for this refill (spec.md §4.5, §9). Each client draws
// only from its own bucket, so the visiting order does not change which
// requests are granted. Called with l.mu held since it consumes the
// Limiter's RNG.
func (l *Limiter) randomClientPermutationLocked() [NumClients]int {
	var perm [NumClients]int
	for i := range perm {
		perm[i] = i
	}
	l.rng.Shuffle(NumClients, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	return perm
}
