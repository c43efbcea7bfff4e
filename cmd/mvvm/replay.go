package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/eathonq/toolkit-mvvm-plugin/internal/harness"
	"github.com/spf13/cobra"
)

type replayOptions struct {
	metrics  bool
	tracing  bool
	endpoint string
	format   string
	quiet    bool
}

func replayCmd(a *app) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay [scenario.yaml...]",
		Short: "Replay scenarios and check reaction expectations",
		Long: `Replay scenario files against a fresh runtime each and check that
every step re-runs exactly the expected reactions.

Without arguments, every *.yaml file in the configured scenario
directory is replayed.

Examples:
  mvvm replay scenarios/bag.yaml
  mvvm replay --metrics
  mvvm replay --trace --otlp-endpoint http://localhost:4318
  mvvm replay --format yaml scenarios/bag.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.metrics = opts.metrics || a.cfg.Metrics.Enabled
			opts.tracing = opts.tracing || a.cfg.Tracing.Enabled
			return a.replay(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics after the replay")
	cmd.Flags().BoolVar(&opts.tracing, "trace", false, "Record an OpenTelemetry span per reaction run")
	cmd.Flags().StringVar(&opts.endpoint, "otlp-endpoint", os.Getenv("MVVM_OTEL_ENDPOINT"), "OTLP/HTTP endpoint for spans (default: log them)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Trace output format: text, yaml")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the result of each scenario")

	return cmd
}

func (a *app) replay(ctx context.Context, files []string, opts replayOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.format != "text" && opts.format != "yaml" {
		return errors.New("E102").WithDetail("format must be text or yaml; got " + opts.format)
	}

	if len(files) == 0 {
		dir := a.cfg.ScenariosPath()
		matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return errors.New("E306").WithDetail("no scenarios in " + dir)
		}
		slices.Sort(matches)
		files = matches
	}

	t, err := a.newTelemetry(ctx, telemetryOptions{
		metrics:  opts.metrics,
		tracing:  opts.tracing,
		endpoint: opts.endpoint,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		if err := a.replayFile(ctx, file, t, opts); err != nil {
			failed++
			a.failure("%s", file)
			errors.Fprint(os.Stderr, err)
			continue
		}
	}

	if err := t.shutdown(ctx); err != nil {
		a.logger.Warn("flushing spans failed", "error", err)
	}
	if opts.metrics {
		fmt.Fprintln(a.out)
		if err := t.writeMetrics(a.out); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.New("E301").WithDetailf("%d of %d scenarios failed", failed, len(files))
	}
	return nil
}

func (a *app) replayFile(ctx context.Context, file string, t *telemetry, opts replayOptions) error {
	s, err := harness.LoadScenario(file)
	if err != nil {
		return err
	}

	trace, err := harness.Run(ctx, s,
		harness.WithHooks(t.hooks),
		harness.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.success("%s (%d steps, %d runs)", s.Name, len(s.Steps), len(trace.Entries))
	if opts.quiet {
		return nil
	}
	if opts.format == "yaml" {
		return trace.WriteYAML(a.out)
	}
	return trace.WriteText(a.out)
}
