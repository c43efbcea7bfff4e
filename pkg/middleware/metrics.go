package middleware

import (
	"time"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// anonymousReaction labels reactions created without reactive.WithName.
const anonymousReaction = "anonymous"

// MetricsConfig configures the Prometheus hooks.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mvvm").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for reaction duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus hooks.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "mvvm",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Hooks that records Prometheus metrics.
type Metrics struct {
	wrapsTotal          *prometheus.CounterVec
	triggersTotal       *prometheus.CounterVec
	triggeredReactions  prometheus.Counter
	reactionRuns        *prometheus.CounterVec
	reactionFailures    *prometheus.CounterVec
	reactionDuration    *prometheus.HistogramVec
	reentrantSuppressed prometheus.Counter
	reactionsStopped    prometheus.Counter
}

var _ reactive.Hooks = (*Metrics)(nil)

// Prometheus creates hooks that collect metrics for a reactive runtime.
// The collectors are registered with the configured registry, so calling
// Prometheus twice with the same registry panics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	rt := reactive.NewRuntime(reactive.WithHooks(
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	))
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		wrapsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "wraps_total",
			Help:        "Total number of proxies created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		triggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of writes that notified reactions",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		triggeredReactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggered_reactions_total",
			Help:        "Total number of reactions collected by triggering writes",
			ConstLabels: config.ConstLabels,
		}),

		reactionRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reaction_runs_total",
			Help:        "Total number of tracked reaction runs",
			ConstLabels: config.ConstLabels,
		}, []string{"reaction"}),

		reactionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reaction_failures_total",
			Help:        "Total number of reaction runs that panicked",
			ConstLabels: config.ConstLabels,
		}, []string{"reaction"}),

		reactionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reaction_duration_seconds",
			Help:        "Reaction run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"reaction"}),

		reentrantSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reentrant_suppressed_total",
			Help:        "Total number of re-entrant reaction runs suppressed",
			ConstLabels: config.ConstLabels,
		}),

		reactionsStopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reactions_stopped_total",
			Help:        "Total number of reactions stopped",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) Wrapped(kind reactive.Kind) {
	m.wrapsTotal.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) Triggered(op *reactive.Operation, affected int) {
	m.triggersTotal.WithLabelValues(op.Kind.String()).Inc()
	m.triggeredReactions.Add(float64(affected))
}

func (m *Metrics) ReactionStarted(r *reactive.Reaction, _ *reactive.Operation) func(bool) {
	name := reactionLabel(r)
	start := time.Now()
	return func(failed bool) {
		m.reactionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		m.reactionRuns.WithLabelValues(name).Inc()
		if failed {
			m.reactionFailures.WithLabelValues(name).Inc()
		}
	}
}

func (m *Metrics) ReactionSuppressed(*reactive.Reaction) {
	m.reentrantSuppressed.Inc()
}

func (m *Metrics) ReactionStopped(*reactive.Reaction) {
	m.reactionsStopped.Inc()
}

// reactionLabel keeps label cardinality bounded: unnamed reactions share
// one series instead of one per ID.
func reactionLabel(r *reactive.Reaction) string {
	if name := r.Name(); name != "" {
		return name
	}
	return anonymousReaction
}
