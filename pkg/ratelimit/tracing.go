package ratelimit

import "context"

// RequestSpan is the tracing seam a blocking Request call reports through,
// mirroring StatsSink's role for metrics (spec.md §6): the core depends
// only on this interface, and a concrete OpenTelemetry-backed
// implementation lives in pkg/telemetry/tracing so the core stays free of
// the tracing dependency.
type RequestSpan interface {
	// RecordDrainWait is called once for every coordination-loop iteration
	// in which this request's caller became the timed-wait leader
	// (spec.md §4.4).
	RecordDrainWait()

	// SetGranted records the final bytes granted. It may be less than the
	// bytes originally requested only when the caller returned early
	// because the limiter was closing (spec.md §4.7).
	SetGranted(bytesGranted int64)

	// End closes the span.
	End()
}

// RequestTracer starts one RequestSpan per blocking Request call.
type RequestTracer interface {
	StartRequest(ctx context.Context, clientID ClientID, pri Priority, op OpType, bytesRequested int64) (context.Context, RequestSpan)
}

// nopSpan discards every call. It backs NopTracer.
type nopSpan struct{}

func (nopSpan) RecordDrainWait() {}
func (nopSpan) SetGranted(int64) {}
func (nopSpan) End()             {}

// NopTracer is the RequestTracer used when Options.Tracer is nil.
type NopTracer struct{}

func (NopTracer) StartRequest(ctx context.Context, _ ClientID, _ Priority, _ OpType, _ int64) (context.Context, RequestSpan) {
	return ctx, nopSpan{}
}
