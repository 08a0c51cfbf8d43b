package ratelimit

import (
	"context"
	"sync/atomic"
)

// clientIDKey is the context key under which a ClientID is stored.
type clientIDKey struct{}

// ContextWithClientID returns a copy of ctx carrying id as the calling
// tenant's client identifier. This is the explicit, preferred way to thread
// client identity through a call chain (see Options and spec design notes
// on thread-local metadata in SPEC_FULL.md §2.1).
func ContextWithClientID(ctx context.Context, id ClientID) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext extracts the ClientID stored by ContextWithClientID.
// If ctx carries none, it falls back to the process-wide default resolver
// registered with SetDefaultClientIDResolver, and finally to
// ClientIDUnset if no resolver is registered either.
func ClientIDFromContext(ctx context.Context) ClientID {
	if v := ctx.Value(clientIDKey{}); v != nil {
		if id, ok := v.(ClientID); ok {
			return id
		}
	}
	if r := defaultResolver.Load(); r != nil {
		if fn, ok := (*r).(func() ClientID); ok {
			return fn()
		}
	}
	return ClientIDUnset
}

var defaultResolver atomic.Pointer[any]

// SetDefaultClientIDResolver registers a process-wide fallback used when a
// caller's context carries no client ID. This exists for callers that
// cannot thread a context through every call site, mirroring the
// thread-local-metadata compatibility fallback described in spec.md §9.
// Pass nil to clear the resolver.
func SetDefaultClientIDResolver(fn func() ClientID) {
	if fn == nil {
		defaultResolver.Store(nil)
		return
	}
	var v any = fn
	defaultResolver.Store(&v)
}

// resolveClientID maps a raw ClientID from context/resolver to the slot
// the limiter should actually use, applying the unset/invalid remapping
// described in spec.md §3.
//
// ok is false only for ClientIDInvalid, signaling the caller that the
// request must be silently bypassed without queueing or accounting.
func resolveClientID(id ClientID) (resolved ClientID, ok bool) {
	switch {
	case id == ClientIDInvalid:
		return 0, false
	case id == ClientIDUnset:
		return 1, true
	case id.valid():
		return id, true
	default:
		// Out-of-range but not one of the two sentinels: treat like
		// "unset" rather than panicking on malformed integers from
		// untrusted callers.
		return 1, true
	}
}
