package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// These functions provide a convenient way to set common attributes on spans.
// They use semantic conventions where applicable and ensure consistent attribute
// naming across the codebase.
//
// # Attribute Keys
//
// Keys outside the custom namespace follow OpenTelemetry conventions:
//   - error, error.message, error.stack: error details
//
// Custom attribute keys use the "iolimiter.*" namespace:
//   - iolimiter.limiter: named Limiter instance
//   - iolimiter.client: client slot
//   - iolimiter.priority: priority class
//   - iolimiter.bytes.*: byte counts

// Common attribute keys used throughout the system
const (
	// Limiter attributes
	AttrLimiter = "iolimiter.limiter"
	AttrMode    = "iolimiter.mode"

	// Request attributes
	AttrRequestID = "iolimiter.request_id"
	AttrClient    = "iolimiter.client"
	AttrPriority  = "iolimiter.priority"
	AttrOp        = "iolimiter.op"

	// Byte attributes
	AttrBytesRequested = "iolimiter.bytes.requested"
	AttrBytesGranted   = "iolimiter.bytes.granted"
	AttrBytesAvailable = "iolimiter.bytes.available"

	// Coordination attributes
	AttrIsLeader     = "iolimiter.coordination.leader"
	AttrRefillPeriod = "iolimiter.coordination.refill_period_us"
	AttrRefillCount  = "iolimiter.coordination.refills"

	// Error attributes
	AttrErrorType    = "iolimiter.error.type"
	AttrErrorMessage = "error.message"
	AttrErrorStack   = "error.stack"

	// Performance attributes
	AttrDuration   = "iolimiter.duration_ms"
	AttrQueueTime  = "iolimiter.queue_time_ms"
	AttrRetryCount = "iolimiter.retry_count"
)

// SetLimiterAttributes sets limiter-identity attributes on a span.
//
// Example:
//
//	SetLimiterAttributes(span, "ingest", "writes_only")
func SetLimiterAttributes(span trace.Span, limiter, mode string) {
	span.SetAttributes(
		attribute.String(AttrLimiter, limiter),
		attribute.String(AttrMode, mode),
	)
}

// SetRequestAttributes sets request-identity attributes on a span.
//
// Example:
//
//	SetRequestAttributes(span, "req-123", 2, "user")
func SetRequestAttributes(span trace.Span, requestID string, clientID int, priority string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
		attribute.Int(AttrClient, clientID),
	}

	if priority != "" {
		attrs = append(attrs, attribute.String(AttrPriority, priority))
	}

	span.SetAttributes(attrs...)
}

// SetByteAttributes sets byte-count attributes on a span.
//
// Example:
//
//	SetByteAttributes(span, 65536, 65536)
func SetByteAttributes(span trace.Span, requested, granted int64) {
	span.SetAttributes(
		attribute.Int64(AttrBytesRequested, requested),
		attribute.Int64(AttrBytesGranted, granted),
	)
}

// SetAvailableAttribute sets the available-bucket-bytes attribute on a span.
//
// Example:
//
//	SetAvailableAttribute(span, 131072)
func SetAvailableAttribute(span trace.Span, available int64) {
	span.SetAttributes(attribute.Int64(AttrBytesAvailable, available))
}

// SetCoordinationAttributes sets leader-election coordination attributes on
// a span covering one RequestToken wait.
//
// Example:
//
//	SetCoordinationAttributes(span, true, 100000, 3)
func SetCoordinationAttributes(span trace.Span, isLeader bool, refillPeriodUs int64, refills int) {
	span.SetAttributes(
		attribute.Bool(AttrIsLeader, isLeader),
		attribute.Int64(AttrRefillPeriod, refillPeriodUs),
		attribute.Int(AttrRefillCount, refills),
	)
}

// SetErrorAttributes sets error-related attributes on a span.
// This also records the error using span.RecordError() and sets the span status.
//
// Example:
//
//	SetErrorAttributes(span, err, "invalid_argument")
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)

	// Record error and set status
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetDurationAttribute sets the duration attribute on a span.
// Duration is recorded in milliseconds.
//
// Example:
//
//	start := time.Now()
//	// ... do work ...
//	SetDurationAttribute(span, time.Since(start).Milliseconds())
func SetDurationAttribute(span trace.Span, durationMs int64) {
	span.SetAttributes(attribute.Int64(AttrDuration, durationMs))
}

// SetQueueTimeAttribute sets the time a request spent queued before being
// granted, in milliseconds.
//
// Example:
//
//	SetQueueTimeAttribute(span, 42)
func SetQueueTimeAttribute(span trace.Span, queueTimeMs int64) {
	span.SetAttributes(attribute.Int64(AttrQueueTime, queueTimeMs))
}

// SetRetryAttribute sets the retry count attribute on a span.
//
// Example:
//
//	SetRetryAttribute(span, 2)
func SetRetryAttribute(span trace.Span, retryCount int) {
	span.SetAttributes(attribute.Int(AttrRetryCount, retryCount))
}

// AddEvent adds a named event to the span with optional attributes.
// Events represent interesting points in the span's lifetime.
//
// Example:
//
//	AddEvent(span, "refill_granted",
//	    attribute.String("limiter", "ingest"),
//	    attribute.Int64("bytes", 65536),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordException records an exception event on the span.
// This is a convenience wrapper around RecordError for errors.
//
// Example:
//
//	RecordException(span, err)
func RecordException(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

// WithLimiter adds limiter-identity attributes.
func (ab *AttributeBuilder) WithLimiter(limiter, mode string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrLimiter, limiter),
		attribute.String(AttrMode, mode),
	)
	return ab
}

// WithRequest adds request-identity attributes.
func (ab *AttributeBuilder) WithRequest(requestID string, clientID int) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrRequestID, requestID),
		attribute.Int(AttrClient, clientID),
	)
	return ab
}

// WithPriority adds the priority-class attribute.
func (ab *AttributeBuilder) WithPriority(priority string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrPriority, priority))
	return ab
}

// WithBytes adds requested/granted byte-count attributes.
func (ab *AttributeBuilder) WithBytes(requested, granted int64) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Int64(AttrBytesRequested, requested),
		attribute.Int64(AttrBytesGranted, granted),
	)
	return ab
}

// WithCoordination adds leader-election coordination attributes.
func (ab *AttributeBuilder) WithCoordination(isLeader bool, refills int) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Bool(AttrIsLeader, isLeader),
		attribute.Int(AttrRefillCount, refills),
	)
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		// Fall back to string representation
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
