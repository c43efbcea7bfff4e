package middleware

import (
	"testing"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracing(t *testing.T, opts ...OTelOption) (*Tracing, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return OpenTelemetry(append([]OTelOption{WithTracerProvider(tp)}, opts...)...), sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetrySpanPerRun(t *testing.T) {
	tracing, sr := newRecordingTracing(t)
	rt := reactive.NewRuntime(reactive.WithHooks(tracing))

	o := rt.ObjectOf(reactive.NewObject("a", 1))
	rt.Observe(func(*reactive.Operation) {
		_ = o.Get("a")
	}, reactive.WithName("reader"))
	o.Set("a", 2)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	first, second := spans[0], spans[1]
	assert.Equal(t, reactionSpanName, first.Name())
	assert.Equal(t, codes.Ok, first.Status().Code)

	op, ok := spanAttr(first, "reactive.op")
	require.True(t, ok)
	assert.Equal(t, "run", op.AsString())

	op, _ = spanAttr(second, "reactive.op")
	assert.Equal(t, "set", op.AsString())
	key, _ := spanAttr(second, "reactive.key")
	assert.Equal(t, "a", key.AsString())
	name, _ := spanAttr(second, "reactive.reaction.name")
	assert.Equal(t, "reader", name.AsString())
}

func TestOpenTelemetryNestedRunsAreChildren(t *testing.T) {
	tracing, sr := newRecordingTracing(t)
	rt := reactive.NewRuntime(reactive.WithHooks(tracing))

	inner := rt.Observe(func(*reactive.Operation) {}, reactive.Lazy(), reactive.WithName("inner"))
	rt.Observe(func(*reactive.Operation) {
		inner.Run()
	}, reactive.WithName("outer"))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	// Spans end innermost first.
	child, parent := spans[0], spans[1]
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
	assert.Equal(t, tracing.config.BaseContext, tracing.Context())
}

func TestOpenTelemetryRecordsPanicAndTriggerEvents(t *testing.T) {
	tracing, sr := newRecordingTracing(t)
	rt := reactive.NewRuntime(reactive.WithHooks(tracing))

	arr := rt.ArrayOf(reactive.NewArray())
	o := rt.ObjectOf(reactive.NewObject("go", false))
	rt.Observe(func(*reactive.Operation) {
		if o.Get("go").(bool) {
			arr.Push(1)
			panic("boom")
		}
	})

	assert.Panics(t, func() { o.Set("go", true) })

	spans := sr.Ended()
	require.Len(t, spans, 2)
	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)

	events := failed.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "reactive.trigger", events[0].Name)
}

func TestOpenTelemetryFilter(t *testing.T) {
	tracing, sr := newRecordingTracing(t, WithReactionFilter(func(r *reactive.Reaction) bool {
		return r.Name() != "quiet"
	}), WithAttributeExtractor(func(*reactive.Reaction, *reactive.Operation) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	}))
	rt := reactive.NewRuntime(reactive.WithHooks(tracing))

	rt.Observe(func(*reactive.Operation) {}, reactive.WithName("quiet"))
	rt.Observe(func(*reactive.Operation) {}, reactive.WithName("loud"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "test.attr")
	require.True(t, ok)
	assert.Equal(t, "ok", v.AsString())
}
