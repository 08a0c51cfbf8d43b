package ratelimit

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ClientRegistry maps arbitrary string tenant keys (API keys, account IDs,
// pod names) onto the Limiter's fixed [0, NumClients) slot range.
//
// The reference implementation relies entirely on an out-of-process
// thread-local metadata service to hand callers a pre-assigned small
// integer; most Go callers instead have a string tenant key lying around
// and no such service. ClientRegistry is the Go-idiomatic generalization
// of that indirection described in SPEC_FULL.md §4: first-seen keys are
// assigned round-robin so that NumClients tenants map one-to-one to
// distinct slots, and only once all slots are taken do further distinct
// keys fall back to a deterministic xxhash-based assignment (so they
// still land on a stable slot, just sharing it with another tenant).
type ClientRegistry struct {
	mu      sync.Mutex
	assign  map[string]ClientID
	nextIdx int
}

// NewClientRegistry returns an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{assign: make(map[string]ClientID)}
}

// Resolve returns the ClientID assigned to key, assigning one on first
// use.
func (r *ClientRegistry) Resolve(key string) ClientID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.assign[key]; ok {
		return id
	}

	var id ClientID
	if r.nextIdx < NumClients {
		id = ClientID(r.nextIdx)
		r.nextIdx++
	} else {
		id = ClientID(hashClientKey(key) % uint64(NumClients))
	}
	r.assign[key] = id
	return id
}

// hashClientKey hashes an arbitrary tenant key to a uint64 using xxhash,
// the same fast non-cryptographic hash the unkn0wn-root/kioshun cache
// uses for its own shard assignment.
func hashClientKey(key string) uint64 {
	return xxhash.Sum64String(key)
}
