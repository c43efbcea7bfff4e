package middleware

import (
	"context"
	"fmt"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Default tracer name for reactive runtimes.
	defaultTracerName = "mvvm"

	reactionSpanName = "reactive.reaction"
)

// OTelConfig configures the OpenTelemetry hooks.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "mvvm").
	TracerName string

	// TracerProvider supplies the tracer. If nil, the global provider
	// is used.
	TracerProvider trace.TracerProvider

	// BaseContext is the parent of top-level reaction spans.
	// Default: context.Background()
	BaseContext context.Context

	// Filter determines which reactions to trace.
	// Return true to trace the run, false to skip.
	// If nil, all reactions are traced.
	Filter func(r *reactive.Reaction) bool

	// AttributeExtractor adds custom attributes to each reaction span.
	AttributeExtractor func(r *reactive.Reaction, op *reactive.Operation) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry hooks.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithBaseContext sets the parent context of top-level reaction spans.
func WithBaseContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.BaseContext = ctx
	}
}

// WithReactionFilter sets a filter function for reactions.
func WithReactionFilter(filter func(r *reactive.Reaction) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(r *reactive.Reaction, op *reactive.Operation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:  defaultTracerName,
		BaseContext: context.Background(),
	}
}

// Tracing is a reactive.Hooks that traces reaction runs.
type Tracing struct {
	reactive.NopHooks

	config OTelConfig

	// spans holds the contexts of the traced runs in progress, innermost
	// last.
	spans []context.Context
}

var _ reactive.Hooks = (*Tracing)(nil)

// OpenTelemetry creates hooks that trace every reaction run.
//
// Each tracked run gets a span with the reaction's ID and name and the
// operation that triggered it. A run that panics ends with an error status.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	rt := reactive.NewRuntime(reactive.WithHooks(
//	    middleware.OpenTelemetry(middleware.WithTracerProvider(tp)),
//	))
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BaseContext == nil {
		config.BaseContext = context.Background()
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{config: config}
}

// Context returns the context of the innermost traced run, or the base
// context when no traced run is in progress.
func (t *Tracing) Context() context.Context {
	if len(t.spans) == 0 {
		return t.config.BaseContext
	}
	return t.spans[len(t.spans)-1]
}

func (t *Tracing) ReactionStarted(r *reactive.Reaction, op *reactive.Operation) func(bool) {
	if t.config.Filter != nil && !t.config.Filter(r) {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("reactive.reaction.id", int64(r.ID())),
		attribute.String("reactive.op", opLabel(op)),
	}
	if name := r.Name(); name != "" {
		attrs = append(attrs, attribute.String("reactive.reaction.name", name))
	}
	attrs = append(attrs, operationAttributes(op)...)
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(r, op)...)
	}

	ctx, span := t.config.tracer.Start(t.Context(), reactionSpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	t.spans = append(t.spans, ctx)
	depth := len(t.spans)

	return func(failed bool) {
		t.spans = t.spans[:depth-1]
		if failed {
			span.SetStatus(codes.Error, "reaction panicked")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func (t *Tracing) Triggered(op *reactive.Operation, affected int) {
	if len(t.spans) == 0 {
		return
	}
	span := trace.SpanFromContext(t.Context())
	attrs := append([]attribute.KeyValue{
		attribute.String("reactive.op", opLabel(op)),
		attribute.Int("reactive.affected", affected),
	}, operationAttributes(op)...)
	span.AddEvent("reactive.trigger", trace.WithAttributes(attrs...))
}

func (t *Tracing) ReactionSuppressed(r *reactive.Reaction) {
	if len(t.spans) == 0 {
		return
	}
	trace.SpanFromContext(t.Context()).AddEvent("reactive.reentrant_suppressed",
		trace.WithAttributes(attribute.Int64("reactive.reaction.id", int64(r.ID()))))
}

// opLabel names the operation; the initial run and direct invocations
// have none.
func opLabel(op *reactive.Operation) string {
	if op == nil {
		return "run"
	}
	return op.Kind.String()
}

func operationAttributes(op *reactive.Operation) []attribute.KeyValue {
	if op == nil {
		return nil
	}
	var attrs []attribute.KeyValue
	if op.Key != nil {
		attrs = append(attrs, attribute.String("reactive.key", fmt.Sprint(op.Key)))
	}
	if op.Array != nil {
		attrs = append(attrs,
			attribute.Int("reactive.array.inserted", len(op.Array.Inserted)),
			attribute.Int("reactive.array.deleted", len(op.Array.Deleted)),
		)
	}
	return attrs
}
