package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/middleware"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// telemetry holds the instrumentation installed on replayed runtimes.
type telemetry struct {
	hooks    reactive.Hooks
	registry *prometheus.Registry
	provider *sdktrace.TracerProvider
}

type telemetryOptions struct {
	metrics  bool
	tracing  bool
	endpoint string
}

// newTelemetry builds the hooks for a replay. Logging is always installed;
// metrics and tracing only when enabled.
func (a *app) newTelemetry(ctx context.Context, opts telemetryOptions) (*telemetry, error) {
	t := &telemetry{}
	hooks := []reactive.Hooks{middleware.Logging(a.logger)}

	if opts.metrics {
		t.registry = prometheus.NewRegistry()
		hooks = append(hooks, middleware.Prometheus(
			middleware.WithRegistry(t.registry),
			middleware.WithNamespace(a.cfg.Metrics.Namespace),
		))
	}

	if opts.tracing {
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(a.cfg.Tracing.ServiceName),
			),
		)
		if err != nil {
			return nil, err
		}

		var export sdktrace.TracerProviderOption
		if opts.endpoint != "" {
			exporter, err := otlptracehttp.New(ctx,
				otlptracehttp.WithEndpointURL(opts.endpoint),
			)
			if err != nil {
				return nil, err
			}
			export = sdktrace.WithBatcher(exporter)
		} else {
			export = sdktrace.WithSyncer(&logExporter{logger: a.logger})
		}

		t.provider = sdktrace.NewTracerProvider(
			export,
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		hooks = append(hooks, middleware.OpenTelemetry(
			middleware.WithTracerProvider(t.provider),
			middleware.WithTracerName(a.cfg.Tracing.TracerName),
		))
	}

	t.hooks = middleware.Chain(hooks...)
	return t, nil
}

// writeMetrics writes the gathered metrics in the Prometheus text format.
func (t *telemetry) writeMetrics(w io.Writer) error {
	if t.registry == nil {
		return nil
	}
	families, err := t.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// shutdown flushes pending spans.
func (t *telemetry) shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// logExporter writes finished spans to the logger when no collector is
// configured.
type logExporter struct {
	logger *slog.Logger
}

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []any{
			"name", s.Name(),
			"trace_id", s.SpanContext().TraceID().String(),
			"span_id", s.SpanContext().SpanID().String(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
			"events", len(s.Events()),
		}
		if s.Parent().IsValid() {
			attrs = append(attrs, "parent_id", s.Parent().SpanID().String())
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key), kv.Value.Emit())
		}
		e.logger.InfoContext(ctx, "span", attrs...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
