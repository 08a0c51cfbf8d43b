package tracing

import (
	"context"

	"iolimiterd/pkg/ratelimit"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestTracer adapts a Tracer into ratelimit.RequestTracer, wrapping every
// blocking Request call in a span carrying the attributes defined in
// attributes.go. It is the concrete counterpart to ratelimit.NopTracer: the
// core package depends only on the ratelimit.RequestTracer interface, and
// this file is what actually exercises the OTel SDK on its behalf. When the
// underlying Tracer is disabled, Start returns OpenTelemetry's own noop
// span, so this adds no meaningful overhead in that case.
type RequestTracer struct {
	tracer         *Tracer
	limiter        string
	mode           string
	refillPeriodUs int64
}

// NewRequestTracer returns a RequestTracer that labels every span with the
// given limiter name, mode, and configured refill period, matching the
// labels the Prometheus collector uses for the same limiter
// (pkg/telemetry/metrics).
func NewRequestTracer(t *Tracer, limiterName, mode string, refillPeriodUs int64) *RequestTracer {
	return &RequestTracer{tracer: t, limiter: limiterName, mode: mode, refillPeriodUs: refillPeriodUs}
}

// StartRequest implements ratelimit.RequestTracer.
func (rt *RequestTracer) StartRequest(ctx context.Context, clientID ratelimit.ClientID, pri ratelimit.Priority, op ratelimit.OpType, bytesRequested int64) (context.Context, ratelimit.RequestSpan) {
	ctx, span := rt.tracer.Start(ctx, "ratelimit.request")

	SetLimiterAttributes(span, rt.limiter, rt.mode)
	SetRequestAttributes(span, requestIDFromContext(ctx), int(clientID), pri.String())
	span.SetAttributes(attribute.String(AttrOp, op.String()))

	return ctx, &requestSpan{span: span, requested: bytesRequested, refillPeriodUs: rt.refillPeriodUs}
}

// requestIDContextKey lets the admin HTTP middleware in cmd/iolimiterd
// attach a correlation ID that both this tracer and pkg/telemetry/logging's
// context-aware log calls can read back, joining a span and its log lines
// on the same ID.
type requestIDContextKey struct{}

// ContextWithRequestID attaches id to ctx under the key requestIDFromContext
// reads back.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// requestSpan implements ratelimit.RequestSpan over a real OTel span.
type requestSpan struct {
	span           trace.Span
	requested      int64
	refillPeriodUs int64
	refills        int
}

func (s *requestSpan) RecordDrainWait() {
	s.refills++
}

func (s *requestSpan) SetGranted(bytesGranted int64) {
	SetByteAttributes(s.span, s.requested, bytesGranted)
	SetCoordinationAttributes(s.span, s.refills > 0, s.refillPeriodUs, s.refills)
}

func (s *requestSpan) End() {
	s.span.End()
}
