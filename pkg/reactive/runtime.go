package reactive

import (
	"log/slog"
	"reflect"
	"sync"
)

// Runtime owns the proxy registry, the dependency store and the stack of
// running reactions. The zero value is not usable; call NewRuntime.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	// proxyToRaw and rawToProxy form the wrapper/raw bijection.
	proxyToRaw map[any]any
	rawToProxy map[any]any

	store *depStore
	kinds *kindRegistry

	// stack holds the reactions currently executing, innermost last.
	stack []*Reaction

	hooks  Hooks
	logger *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger for debug events. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithHooks installs instrumentation hooks.
func WithHooks(h Hooks) Option {
	return func(rt *Runtime) {
		if h != nil {
			rt.hooks = h
		}
	}
}

// WithExcludedTypes lists types that are never wrapped, even when they
// would otherwise qualify.
func WithExcludedTypes(types ...reflect.Type) Option {
	return func(rt *Runtime) {
		for _, t := range types {
			rt.kinds.excluded[t] = true
		}
	}
}

// WithInstrumentedTypes lists struct pointer types from the standard
// library that should be wrapped anyway.
func WithInstrumentedTypes(types ...reflect.Type) Option {
	return func(rt *Runtime) {
		for _, t := range types {
			rt.kinds.instrumented[t] = true
		}
	}
}

// NewRuntime creates an isolated Runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		proxyToRaw: make(map[any]any),
		rawToProxy: make(map[any]any),
		store:      newDepStore(),
		kinds:      newKindRegistry(),
		hooks:      NopHooks{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var (
	defaultRuntime     *Runtime
	defaultRuntimeOnce sync.Once
)

// Default returns the process-wide Runtime used by the package-level
// functions. It is created on first use and never torn down.
func Default() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntime = NewRuntime()
	})
	return defaultRuntime
}

// Reactive returns the proxy for v. Proxies are returned unchanged, as are
// primitives and excluded types. A raw object wrapped before gets its
// existing proxy.
func (rt *Runtime) Reactive(v any) any {
	if _, ok := v.(Proxy); ok {
		return v
	}
	kind := rt.kinds.kindOf(v)
	if kind == KindNone {
		return v
	}
	if p, ok := rt.rawToProxy[v]; ok {
		return p
	}

	var p Proxy
	switch x := v.(type) {
	case *Object:
		p = &ObjectProxy{rt: rt, raw: x, obj: objectAdapter{x}}
	case *Array:
		p = &ArrayProxy{rt: rt, arr: x}
	case *Map:
		p = &MapProxy{rt: rt, m: x}
	case *Set:
		p = &SetProxy{rt: rt, s: x}
	default:
		p = &ObjectProxy{rt: rt, raw: v, obj: newStructAdapter(v, rt.kinds)}
	}

	rt.rawToProxy[v] = p
	rt.proxyToRaw[p] = v
	rt.store.ensure(v)
	rt.hooks.Wrapped(kind)
	rt.logger.Debug("reactive: wrapped", "kind", kind.String(), "type", reflect.TypeOf(v).String())
	return p
}

// Lookup returns the raw object behind a proxy produced by this Runtime.
// It reports false for anything else.
func (rt *Runtime) Lookup(v any) (any, bool) {
	p, ok := v.(Proxy)
	if !ok {
		return nil, false
	}
	raw, ok := rt.proxyToRaw[p]
	return raw, ok
}

// Raw returns the raw object behind a proxy, or v itself when v is not a
// proxy. Proxies of other Runtimes are unwrapped too, so that no proxy is
// ever stored into a raw object.
func (rt *Runtime) Raw(v any) any {
	if raw, ok := rt.Lookup(v); ok {
		return raw
	}
	if p, ok := v.(Proxy); ok {
		return p.target()
	}
	return v
}

// IsReactive reports whether v is a proxy produced by this Runtime.
func (rt *Runtime) IsReactive(v any) bool {
	_, ok := rt.Lookup(v)
	return ok
}

// ObjectOf returns the proxy for o.
func (rt *Runtime) ObjectOf(o *Object) *ObjectProxy {
	p, _ := rt.Reactive(o).(*ObjectProxy)
	return p
}

// StructOf returns the proxy for a struct pointer, or nil when ptr is not
// an instrumentable struct pointer.
//
// The proxy's keys are the exported fields, renamed by a `reactive:"name"`
// tag or hidden by `reactive:"-"`. Fields of native slice, map, func or
// channel type are hidden too, so that reads through the proxy only yield
// proxies or primitives; model collections as *Array, *Map or *Set fields.
func (rt *Runtime) StructOf(ptr any) *ObjectProxy {
	p, _ := rt.Reactive(ptr).(*ObjectProxy)
	return p
}

// ArrayOf returns the proxy for a.
func (rt *Runtime) ArrayOf(a *Array) *ArrayProxy {
	p, _ := rt.Reactive(a).(*ArrayProxy)
	return p
}

// MapOf returns the proxy for m.
func (rt *Runtime) MapOf(m *Map) *MapProxy {
	p, _ := rt.Reactive(m).(*MapProxy)
	return p
}

// SetOf returns the proxy for s.
func (rt *Runtime) SetOf(s *Set) *SetProxy {
	p, _ := rt.Reactive(s).(*SetProxy)
	return p
}

// rawAll de-wraps every element of values into a new slice.
func (rt *Runtime) rawAll(values []any) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = rt.Raw(v)
	}
	return out
}

// wrapTracked returns the proxy for v if one exists, creates one if a
// reaction is running, and returns v otherwise.
func (rt *Runtime) wrapTracked(v any) any {
	if rt.kinds.kindOf(v) == KindNone {
		return v
	}
	if p, ok := rt.rawToProxy[v]; ok {
		return p
	}
	if rt.current() == nil {
		return v
	}
	return rt.Reactive(v)
}

// current returns the innermost running reaction, or nil.
func (rt *Runtime) current() *Reaction {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// onStack reports whether r is currently executing.
func (rt *Runtime) onStack(r *Reaction) bool {
	for _, running := range rt.stack {
		if running == r {
			return true
		}
	}
	return false
}

// pop removes the innermost occurrence of r from the stack.
func (rt *Runtime) pop(r *Reaction) {
	for i := len(rt.stack) - 1; i >= 0; i-- {
		if rt.stack[i] == r {
			rt.stack[i] = nil
			rt.stack = append(rt.stack[:i], rt.stack[i+1:]...)
			return
		}
	}
}

// track subscribes the running reaction to (raw, key).
func (rt *Runtime) track(kind OpKind, raw, key any) {
	r := rt.current()
	if r == nil || r.state == stateStopped {
		return
	}
	if r.debugger != nil {
		r.debugger(Operation{Kind: kind, Target: raw, Key: key})
	}
	rt.store.register(r, raw, key)
}

// trigger runs (or schedules) every reaction affected by op on keys.
// structKey is IterateKey or LengthKey depending on the target's kind.
func (rt *Runtime) trigger(op *Operation, keys []any, structKey any) {
	affected := rt.store.collect(op.Target, keys, op.Kind, structKey)
	rt.hooks.Triggered(op, len(affected))
	for _, r := range affected {
		if r.state == stateStopped {
			continue
		}
		if r.debugger != nil {
			r.debugger(*op)
		}
		if r.scheduler != nil {
			r.scheduler(r, op)
			continue
		}
		r.run(op)
	}
}

// Reactive wraps v with the default Runtime.
func Reactive(v any) any { return Default().Reactive(v) }

// Raw unwraps v with the default Runtime.
func Raw(v any) any { return Default().Raw(v) }

// Lookup looks v up in the default Runtime's registry.
func Lookup(v any) (any, bool) { return Default().Lookup(v) }

// IsReactive reports whether v is a proxy of the default Runtime.
func IsReactive(v any) bool { return Default().IsReactive(v) }

// ObjectOf wraps o with the default Runtime.
func ObjectOf(o *Object) *ObjectProxy { return Default().ObjectOf(o) }

// StructOf wraps a struct pointer with the default Runtime.
func StructOf(ptr any) *ObjectProxy { return Default().StructOf(ptr) }

// ArrayOf wraps a with the default Runtime.
func ArrayOf(a *Array) *ArrayProxy { return Default().ArrayOf(a) }

// MapOf wraps m with the default Runtime.
func MapOf(m *Map) *MapProxy { return Default().MapOf(m) }

// SetOf wraps s with the default Runtime.
func SetOf(s *Set) *SetProxy { return Default().SetOf(s) }
