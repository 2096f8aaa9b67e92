package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation statuses recorded on spans and metrics.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusExhausted = "exhausted"
)

// OperationContext tracks one logical registry operation across its attempts.
type OperationContext struct {
	Operation string
	RequestID string
	StartTime time.Time
	Metrics   *RegistryMetrics
}

// NewOperationContext creates a new operation context.
// If metrics is nil, metric recording is silently skipped.
func NewOperationContext(operation, requestID string, metrics *RegistryMetrics) *OperationContext {
	return &OperationContext{
		Operation: operation,
		RequestID: requestID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// Start opens the operation span.
func (oc *OperationContext) Start(ctx context.Context, endpoints []string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanOperation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrOperation, oc.Operation),
		attribute.StringSlice(AttrEndpoints, endpoints),
	)
	if oc.RequestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, oc.RequestID))
	}
	return ctx, span
}

// StartAttempt opens a child span for one endpoint attempt.
func (oc *OperationContext) StartAttempt(ctx context.Context, endpoint string, attempt int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAttempt,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrOperation, oc.Operation),
			attribute.String(AttrEndpoint, endpoint),
			attribute.Int(AttrAttempt, attempt),
		),
	)
}

// EndAttempt closes an attempt span and counts it.
func (oc *OperationContext) EndAttempt(ctx context.Context, span trace.Span, endpoint string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	oc.Metrics.RecordAttempt(ctx, oc.Operation, endpoint, err)
}

// End closes the operation span and records the operation metrics.
func (oc *OperationContext) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := oc.Duration()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()
	oc.Metrics.RecordOperation(ctx, oc.Operation, status, duration)
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}
