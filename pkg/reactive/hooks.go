package reactive

// Hooks observes the runtime for instrumentation. Implementations must not
// read or write proxies; they are called while the runtime is mid-operation.
type Hooks interface {
	// Wrapped is called when a new proxy is created.
	Wrapped(kind Kind)

	// Triggered is called for every write that notifies reactions, with the
	// number of reactions collected for it.
	Triggered(op *Operation, affected int)

	// ReactionStarted is called before a tracked run. The returned function,
	// if non-nil, is called when the run ends; failed is true when the body
	// panicked.
	ReactionStarted(r *Reaction, op *Operation) (done func(failed bool))

	// ReactionSuppressed is called when a reaction already on the stack is
	// invoked again.
	ReactionSuppressed(r *Reaction)

	// ReactionStopped is called once per reaction, when it is stopped.
	ReactionStopped(r *Reaction)
}

// NopHooks implements Hooks with no-ops. Embed it to implement a subset.
type NopHooks struct{}

func (NopHooks) Wrapped(Kind)                  {}
func (NopHooks) Triggered(*Operation, int)     {}
func (NopHooks) ReactionSuppressed(*Reaction)  {}
func (NopHooks) ReactionStopped(*Reaction)     {}
func (NopHooks) ReactionStarted(*Reaction, *Operation) func(bool) {
	return nil
}
