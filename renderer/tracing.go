package renderer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName mirrors scheduler's tracer-name constant, grounded
// on vango/pkg/middleware/otel.go's defaultTracerName.
const defaultTracerName = "kinetic/renderer"

// Tracer is the same narrow OTel surface scheduler.Tracer declares,
// except that Span.SetAttribute takes a string value rather than an
// int; declared here rather than imported so renderer carries no
// dependency on the scheduler package.
type Tracer interface {
	Start(ctx context.Context, spanName string) (context.Context, Span)
}

type Span interface {
	SetAttribute(key, value string)
	End()
}

type otelTracer struct{ tracer trace.Tracer }

// NewOTelTracer wraps the given (or, if nil, the global) TracerProvider
// for use as a Renderer's Tracer.
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

type otelSpan struct{ span trace.Span }

func (s *otelSpan) SetAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *otelSpan) End() { s.span.End() }

type noopSpan struct{}

func (noopSpan) SetAttribute(string, string) {}
func (noopSpan) End()                        {}

// Renderer applies Diff's patches through a HostDriver, emitting one
// OTel span per Patch when a Tracer is attached (spec's domain-stack
// instrumentation, not a DevTools protocol).
type Renderer struct {
	tracer Tracer
}

// Option configures a Renderer at construction.
type Option func(*Renderer)

// WithTracer attaches t so every applied Patch gets its own span.
func WithTracer(t Tracer) Option {
	return func(r *Renderer) { r.tracer = t }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) startPatchSpan(ctx context.Context, p Patch) (context.Context, Span) {
	if r.tracer == nil {
		return ctx, noopSpan{}
	}
	ctx, span := r.tracer.Start(ctx, "kinetic.renderer.patch")
	span.SetAttribute("kinetic.patch.op", p.Op.String())
	return ctx, span
}
