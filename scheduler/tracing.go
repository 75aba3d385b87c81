package scheduler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name NewOTelTracer requests from the
// global TracerProvider, grounded on
// vango/pkg/middleware/otel.go's defaultTracerName constant.
const defaultTracerName = "kinetic/scheduler"

// Tracer wraps an OpenTelemetry tracer so FlushSync can start a span
// per flush without the scheduler package depending on exactly how the
// caller configured their TracerProvider.
type Tracer interface {
	Start(ctx context.Context, spanName string) (context.Context, Span)
}

// Span is the narrow span surface FlushSync needs.
type Span interface {
	SetAttribute(key string, value int)
	End()
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer wraps the given (or, if nil, the global) OpenTelemetry
// TracerProvider's tracer for use as a Scheduler's Tracer.
func NewOTelTracer(provider trace.TracerProvider) Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &otelTracer{tracer: provider.Tracer(defaultTracerName)}
}

func (t *otelTracer) Start(ctx context.Context, spanName string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, spanName)
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetAttribute(key string, value int) {
	s.span.SetAttributes(attribute.Int(key, value))
}

func (s *otelSpan) End() { s.span.End() }

// noopSpan is returned when a Scheduler has no Tracer attached.
type noopSpan struct{}

func (noopSpan) SetAttribute(string, int) {}
func (noopSpan) End()                     {}

func (s *Scheduler) startFlushSpan(ctx context.Context) (context.Context, Span) {
	if s.tracer == nil {
		return ctx, noopSpan{}
	}
	return s.tracer.Start(ctx, "kinetic.scheduler.flush")
}
