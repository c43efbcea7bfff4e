// Package middleware provides instrumentation for the reactive runtime.
//
// Every constructor returns a reactive.Hooks, installed with
// reactive.WithHooks:
//
//	rt := reactive.NewRuntime(
//	    reactive.WithHooks(middleware.Chain(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	        middleware.OpenTelemetry(middleware.WithTracerName("myapp")),
//	        middleware.Logging(slog.Default()),
//	    )),
//	)
//
// # Prometheus Metrics
//
// Prometheus counts proxy creation, triggering writes and reaction runs,
// and observes reaction duration:
//   - mvvm_wraps_total: proxies created, by kind
//   - mvvm_triggers_total: notifying writes, by operation
//   - mvvm_triggered_reactions_total: reactions collected by writes
//   - mvvm_reaction_runs_total: tracked runs, by reaction name
//   - mvvm_reaction_failures_total: runs that panicked, by reaction name
//   - mvvm_reaction_duration_seconds: run duration histogram
//   - mvvm_reentrant_suppressed_total: suppressed re-entrant runs
//   - mvvm_reactions_stopped_total: stopped reactions
//
// Expose the registry the usual way:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry opens a "reactive.reaction" span around every tracked run.
// Runs started from inside another run become child spans, and triggering
// writes are recorded as span events on the innermost running span.
//
// Hooks are called synchronously by the runtime that owns them, so none of
// the implementations here lock.
package middleware
