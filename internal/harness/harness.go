package harness

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/eathonq/toolkit-mvvm-plugin/internal/model"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/binding"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Option configures a run.
type Option func(*runner)

// WithHooks installs instrumentation on the run's Runtime.
func WithHooks(h reactive.Hooks) Option {
	return func(r *runner) {
		r.hooks = h
	}
}

// WithLogger sets the logger for the run and its Runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type runner struct {
	s      *Scenario
	hooks  reactive.Hooks
	logger *slog.Logger

	rt        *reactive.Runtime
	root      reactive.Accessor
	reactions map[string]*reactive.Reaction
	trace     *Trace

	// step is the 1-based index of the step being applied, 0 while
	// reactions are registered.
	step int
	ran  []string
}

// Run replays s on a fresh Runtime and returns the trace of every
// reaction run. Execution stops at the first failed expectation; the
// returned trace then covers the steps applied so far.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Trace, error) {
	r := &runner{
		s:         s,
		logger:    slog.Default(),
		reactions: make(map[string]*reactive.Reaction, len(s.Reactions)),
	}
	for _, opt := range opts {
		opt(r)
	}

	runID := s.RunID
	if runID == "" {
		runID = uuid.Must(uuid.NewV7()).String()
	}
	r.trace = &Trace{RunID: runID, Scenario: s.Name}
	r.logger = r.logger.With("run_id", runID, "scenario", s.Name)

	r.rt = reactive.NewRuntime(reactive.WithHooks(r.hooks), reactive.WithLogger(r.logger))

	if s.Model.Kind == 0 {
		return r.trace, errors.New("E302").WithDetail("model is required")
	}
	raw, err := model.DecodeNode(s.file, &s.Model)
	if err != nil {
		return r.trace, err
	}
	root, ok := r.rt.Reactive(raw).(reactive.Accessor)
	if !ok {
		return r.trace, errors.New("E302").WithDetailf("model must be a mapping, sequence or !map, got %T", raw)
	}
	r.root = root

	for _, spec := range s.Reactions {
		if err := r.observe(spec); err != nil {
			return r.trace, err
		}
	}

	for i := range s.Steps {
		if err := ctx.Err(); err != nil {
			return r.trace, err
		}
		r.step = i + 1
		r.ran = r.ran[:0]
		step := &s.Steps[i]

		if err := r.apply(step); err != nil {
			return r.trace, r.locate(err, step)
		}
		if err := r.expect(step); err != nil {
			return r.trace, err
		}
	}

	r.logger.Debug("harness: scenario passed", "steps", len(s.Steps), "entries", len(r.trace.Entries))
	return r.trace, nil
}

// observe registers one reaction and records its runs.
func (r *runner) observe(spec ReactionSpec) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New("E307").WithDetailf("reaction %q: %v", spec.Name, p)
		}
	}()

	r.reactions[spec.Name] = r.rt.Observe(func(op *reactive.Operation) {
		values := make([]any, len(spec.Reads))
		for i, path := range spec.Reads {
			values[i] = r.read(path)
		}
		r.ran = append(r.ran, spec.Name)
		r.trace.add(r.step, spec.Name, op, values)
	}, reactive.WithName(spec.Name))
	return nil
}

// read evaluates one read path, tracked by the running reaction.
func (r *runner) read(path string) any {
	if path != "*" && !strings.HasSuffix(path, ".*") {
		v, _ := binding.Resolve(r.rt, r.root, path)
		return model.Snapshot(v)
	}

	prefix := strings.TrimSuffix(strings.TrimSuffix(path, "*"), ".")
	v, ok := binding.Resolve(r.rt, r.root, prefix)
	if !ok {
		return nil
	}
	p, ok := r.rt.Reactive(v).(reactive.Proxy)
	if !ok {
		return nil
	}
	keys := p.Keys()
	if acc, ok := p.(reactive.Accessor); ok {
		for _, k := range keys {
			_ = acc.Get(k)
		}
	}
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = model.Snapshot(k)
	}
	return out
}

// apply performs one step. A panic from a reaction is reported as E307.
func (r *runner) apply(step *Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New("E307").WithDetailf("%s: %v", step.Op, p)
		}
	}()

	if step.Op == OpStop {
		r.reactions[step.Reaction].Stop()
		return nil
	}
	if step.Op == OpCheck {
		return r.check(step)
	}

	target, err := r.container(step.Path)
	if err != nil {
		return err
	}

	switch step.Op {
	case OpSet:
		acc, ok := target.(reactive.Accessor)
		if !ok {
			return r.unresolved(step, "%T has no keys", reactive.Raw(target))
		}
		value, err := r.value(step.Value)
		if err != nil {
			return err
		}
		acc.Set(step.Key, value)

	case OpDelete:
		target.Delete(step.Key)

	case OpAdd:
		set, ok := target.(*reactive.SetProxy)
		if !ok {
			return r.unresolved(step, "add needs a set, got %T", reactive.Raw(target))
		}
		value, err := r.value(step.Value)
		if err != nil {
			return err
		}
		set.Add(value)

	case OpClear:
		c, ok := target.(interface{ Clear() })
		if !ok {
			return r.unresolved(step, "clear needs a map or set, got %T", reactive.Raw(target))
		}
		c.Clear()

	default:
		arr, ok := target.(*reactive.ArrayProxy)
		if !ok {
			return r.unresolved(step, "%s needs an array, got %T", step.Op, reactive.Raw(target))
		}
		return r.arrayOp(arr, step)
	}
	return nil
}

func (r *runner) arrayOp(arr *reactive.ArrayProxy, step *Step) error {
	values, err := r.values(step.Values)
	if err != nil {
		return err
	}
	switch step.Op {
	case OpPush:
		arr.Push(values...)
	case OpPop:
		arr.Pop()
	case OpShift:
		arr.Shift()
	case OpUnshift:
		arr.Unshift(values...)
	case OpSplice:
		count := arr.Len()
		if step.Count != nil {
			count = *step.Count
		}
		arr.Splice(*step.Start, count, values...)
	}
	return nil
}

// check compares the value at step.Path with step.Value.
func (r *runner) check(step *Step) error {
	got, ok := binding.Resolve(r.rt, r.root, step.Path)
	if !ok {
		return r.unresolved(step, "")
	}
	want, err := r.value(step.Value)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(model.Snapshot(got), model.Snapshot(want)) {
		return errors.New("E301").WithDetailf("step %d: %s = %v, want %v",
			r.step, displayPath(step.Path), model.Snapshot(got), model.Snapshot(want))
	}
	return nil
}

// expect compares the reactions that ran during the step with step.Expect.
func (r *runner) expect(step *Step) error {
	if step.Expect == nil {
		return nil
	}
	ran := slices.Clone(r.ran)
	slices.Sort(ran)
	ran = slices.Compact(ran)
	want := slices.Clone(step.Expect)
	slices.Sort(want)
	want = slices.Compact(want)

	if slices.Equal(ran, want) {
		return nil
	}
	return r.locate(errors.New("E301").WithDetailf("step %d (%s %s): expected %v to run, ran %v",
		r.step, step.Op, displayPath(step.Path), want, ran), step)
}

// container resolves path to the proxy a mutation applies to.
func (r *runner) container(path string) (reactive.Proxy, error) {
	v, ok := binding.Resolve(r.rt, r.root, path)
	if !ok || v == nil {
		return nil, errors.New("E304").WithDetail(displayPath(path))
	}
	p, ok := r.rt.Reactive(v).(reactive.Proxy)
	if !ok {
		return nil, errors.New("E304").WithDetailf("%s is a %T, not a container", displayPath(path), v)
	}
	return p, nil
}

func (r *runner) value(n *yaml.Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	return model.DecodeNode(r.s.file, n)
}

func (r *runner) values(nodes []yaml.Node) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for i := range nodes {
		v, err := r.value(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *runner) unresolved(step *Step, format string, args ...any) error {
	detail := displayPath(step.Path)
	if format != "" {
		detail += ": " + fmt.Sprintf(format, args...)
	}
	return errors.New("E304").WithDetail(detail)
}

// locate attaches the step's position to coded errors that have none.
func (r *runner) locate(err error, step *Step) error {
	e, ok := err.(*errors.Error)
	if !ok || e.Location != nil || step.line == 0 || r.s.file == "" {
		return err
	}
	return e.WithLocation(r.s.file, step.line, 0)
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
