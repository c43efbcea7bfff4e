package reactive

type reactionState uint8

const (
	stateIdle reactionState = iota
	stateRunning
	stateStopped
)

// Reaction is a function re-run whenever a key it read during its last run
// is written. Create one with Observe.
type Reaction struct {
	id   uint64
	name string
	rt   *Runtime

	fn    func(op *Operation)
	state reactionState

	// cleaners are the dependency sets this reaction joined during its
	// last run, for release before the next one.
	cleaners []*reactionSet

	scheduler func(r *Reaction, op *Operation)
	debugger  func(op Operation)
	lazy      bool
}

// ObserveOption configures a Reaction.
type ObserveOption interface {
	applyObserve(r *Reaction)
}

type observeOptionFunc func(*Reaction)

func (f observeOptionFunc) applyObserve(r *Reaction) { f(r) }

// WithName names the reaction for logs, metrics and traces.
func WithName(name string) ObserveOption {
	return observeOptionFunc(func(r *Reaction) {
		r.name = name
	})
}

// Lazy skips the initial run. Dependencies are recorded on the first
// explicit Run.
func Lazy() ObserveOption {
	return observeOptionFunc(func(r *Reaction) {
		r.lazy = true
	})
}

// WithScheduler hands triggered runs to fn instead of running them
// synchronously. fn may call r.Trigger(op) now or later, or drop the run.
//
// Example (coalesce updates into a frame):
//
//	pending := map[*reactive.Reaction]*reactive.Operation{}
//	reactive.Observe(render, reactive.WithScheduler(func(r *reactive.Reaction, op *reactive.Operation) {
//	    pending[r] = op
//	}))
//	// on frame:
//	for r, op := range pending {
//	    r.Trigger(op)
//	}
func WithScheduler(fn func(r *Reaction, op *Operation)) ObserveOption {
	return observeOptionFunc(func(r *Reaction) {
		r.scheduler = fn
	})
}

// WithDebugger calls fn for every read the reaction registers and for every
// write that triggers it.
func WithDebugger(fn func(op Operation)) ObserveOption {
	return observeOptionFunc(func(r *Reaction) {
		r.debugger = fn
	})
}

// Observe creates a reaction running fn and, unless Lazy is given, runs it
// once before returning. fn receives nil on that first run and the
// triggering Operation on every later one.
func (rt *Runtime) Observe(fn func(op *Operation), opts ...ObserveOption) *Reaction {
	r := &Reaction{
		id: nextID(),
		rt: rt,
		fn: fn,
	}
	for _, opt := range opts {
		opt.applyObserve(r)
	}
	if !r.lazy {
		r.run(nil)
	}
	return r
}

// Unobserve stops r. It is safe to call more than once.
func (rt *Runtime) Unobserve(r *Reaction) {
	if r != nil {
		r.Stop()
	}
}

// Observe creates a reaction on the default Runtime.
func Observe(fn func(op *Operation), opts ...ObserveOption) *Reaction {
	return Default().Observe(fn, opts...)
}

// Unobserve stops r.
func Unobserve(r *Reaction) {
	if r != nil {
		r.Stop()
	}
}

// ID returns the unique identifier of the reaction.
func (r *Reaction) ID() uint64 {
	return r.id
}

// Name returns the name given with WithName.
func (r *Reaction) Name() string {
	return r.name
}

// Stopped reports whether the reaction was stopped.
func (r *Reaction) Stopped() bool {
	return r.state == stateStopped
}

// Running reports whether the reaction is executing.
func (r *Reaction) Running() bool {
	return r.state == stateRunning
}

// Run invokes the reaction by hand. The body receives a nil Operation.
func (r *Reaction) Run() {
	r.run(nil)
}

// Trigger invokes the reaction as if op had triggered it. Schedulers use it
// to perform a deferred run.
func (r *Reaction) Trigger(op *Operation) {
	r.run(op)
}

// Stop stops the reaction and releases its dependencies. A stopped
// reaction still runs its body when invoked directly, without tracking.
func (r *Reaction) Stop() {
	if r.state == stateStopped {
		return
	}
	r.state = stateStopped
	r.rt.store.release(r)
	r.rt.hooks.ReactionStopped(r)
	r.rt.logger.Debug("reactive: reaction stopped", "reaction", r.id, "name", r.name)
}

// run executes the body with dependency tracking. The stack entry is
// removed even when the body panics.
func (r *Reaction) run(op *Operation) {
	if r.state == stateStopped {
		r.fn(op)
		return
	}

	rt := r.rt
	if rt.onStack(r) {
		rt.hooks.ReactionSuppressed(r)
		rt.logger.Debug("reactive: reentrant run suppressed", "reaction", r.id, "name", r.name)
		return
	}

	rt.store.release(r)
	rt.stack = append(rt.stack, r)
	r.state = stateRunning
	done := rt.hooks.ReactionStarted(r, op)

	completed := false
	defer func() {
		rt.pop(r)
		if r.state == stateRunning {
			r.state = stateIdle
		}
		if done != nil {
			done(!completed)
		}
	}()

	r.fn(op)
	completed = true
}
