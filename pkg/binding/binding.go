// Package binding attaches scene nodes to paths of a reactive model.
//
// A binding is a reaction that resolves a dotted path from a root proxy
// and hands the value to the node. Every hop of the path is read through a
// proxy, so replacing any intermediate object re-runs the binding:
//
//	b := binding.NewBinder(rt)
//	b.Bind(label, vm, "player.name", func(v any, _ *reactive.Operation) {
//	    label.SetText(fmt.Sprint(v))
//	})
//
// A Binder, like the Runtime it uses, must be confined to one goroutine.
package binding

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
)

var (
	// ErrEmptyPath is returned when binding to an empty path.
	ErrEmptyPath = errors.New("binding: empty path")

	// ErrUnresolved is returned when a path does not lead to a writable
	// container.
	ErrUnresolved = errors.New("binding: path does not resolve")

	// ErrStopped is returned when writing through a stopped binding.
	ErrStopped = errors.New("binding: binding stopped")
)

// Node is a scene element that displays or edits a model value.
//
// Nodes are matched by identity, so implement Node on a pointer type.
// A node whose dynamic value is not comparable never matches in
// UnbindNode; release its bindings with Unbind.
type Node interface {
	Name() string
}

// Binder owns the bindings of one Runtime.
type Binder struct {
	rt     *reactive.Runtime
	logger *slog.Logger

	// bindings are kept in registration order; the first registrant for a
	// path is the one FirstBound reports.
	bindings []*Binding
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBinder creates a Binder on rt. A nil rt uses reactive.Default().
func NewBinder(rt *reactive.Runtime, opts ...Option) *Binder {
	if rt == nil {
		rt = reactive.Default()
	}
	b := &Binder{
		rt:     rt,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Binding is one node attached to one path.
type Binding struct {
	binder   *Binder
	node     Node
	root     reactive.Accessor
	rootRaw  any
	path     string
	segments []string
	apply    func(value any, op *reactive.Operation)
	reaction *reactive.Reaction
	value    any
}

// Bind attaches node to path under root and runs apply with the resolved
// value now and after every change along the path. An unresolvable path
// yields nil.
func (b *Binder) Bind(node Node, root reactive.Accessor, path string, apply func(value any, op *reactive.Operation)) (*Binding, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: nil root for %q", ErrUnresolved, path)
	}

	bd := &Binding{
		binder:   b,
		node:     node,
		root:     root,
		rootRaw:  b.rt.Raw(root),
		path:     path,
		segments: segments,
		apply:    apply,
	}
	b.bindings = append(b.bindings, bd)

	name := path
	if node != nil {
		name = node.Name() + ":" + path
	}
	bd.reaction = b.rt.Observe(func(op *reactive.Operation) {
		bd.value, _ = resolve(b.rt, root, segments)
		if bd.apply != nil {
			bd.apply(bd.value, op)
		}
	}, reactive.WithName(name))

	b.logger.Debug("binding: bound", "node", nodeName(node), "path", path)
	return bd, nil
}

// FirstBound returns the first node still bound to path under root. root
// may be a proxy or its raw object.
func (b *Binder) FirstBound(root any, path string) (Node, bool) {
	raw := b.rt.Raw(root)
	for _, bd := range b.bindings {
		if bd.rootRaw == raw && bd.path == path && !bd.reaction.Stopped() {
			return bd.node, true
		}
	}
	return nil, false
}

// BoundNodes returns every node still bound to path under root, in
// registration order.
func (b *Binder) BoundNodes(root any, path string) []Node {
	raw := b.rt.Raw(root)
	var nodes []Node
	for _, bd := range b.bindings {
		if bd.rootRaw == raw && bd.path == path && !bd.reaction.Stopped() {
			nodes = append(nodes, bd.node)
		}
	}
	return nodes
}

// Len returns the number of active bindings. Bindings whose reaction was
// stopped directly are not counted.
func (b *Binder) Len() int {
	n := 0
	for _, bd := range b.bindings {
		if !bd.reaction.Stopped() {
			n++
		}
	}
	return n
}

// Unbind stops bd and forgets it.
func (b *Binder) Unbind(bd *Binding) {
	if bd == nil {
		return
	}
	bd.reaction.Stop()
	b.remove(func(x *Binding) bool { return x == bd })
}

// UnbindNode stops every binding of node and returns how many there were.
func (b *Binder) UnbindNode(node Node) int {
	n := 0
	for _, bd := range b.bindings {
		if sameNode(bd.node, node) {
			bd.reaction.Stop()
			n++
		}
	}
	b.remove(func(x *Binding) bool { return sameNode(x.node, node) })
	if n > 0 {
		b.logger.Debug("binding: node unbound", "node", nodeName(node), "bindings", n)
	}
	return n
}

func (b *Binder) remove(match func(*Binding) bool) {
	kept := b.bindings[:0]
	for _, bd := range b.bindings {
		if !match(bd) {
			kept = append(kept, bd)
		}
	}
	clear(b.bindings[len(kept):])
	b.bindings = kept
}

// Node returns the bound node.
func (bd *Binding) Node() Node { return bd.node }

// Path returns the bound path.
func (bd *Binding) Path() string { return bd.path }

// Value returns the value resolved by the last run.
func (bd *Binding) Value() any { return bd.value }

// Reaction returns the reaction driving the binding.
func (bd *Binding) Reaction() *reactive.Reaction { return bd.reaction }

// Write stores value at the bound path. The binding itself re-runs through
// the usual trigger, so the node sees its own write.
func (bd *Binding) Write(value any) error {
	if bd.reaction.Stopped() {
		return ErrStopped
	}
	last := len(bd.segments) - 1
	parent, ok := resolve(bd.binder.rt, bd.root, bd.segments[:last])
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnresolved, bd.path)
	}
	acc, ok := bd.binder.rt.Reactive(parent).(reactive.Accessor)
	if !ok {
		return fmt.Errorf("%w: %q is not a container", ErrUnresolved, strings.Join(bd.segments[:last], "."))
	}
	acc.Set(bd.segments[last], value)
	return nil
}

// Resolve walks a dotted path from root and returns the value it leads to.
// Read inside a reaction, every hop becomes a dependency. The empty path
// resolves to root itself.
func Resolve(rt *reactive.Runtime, root reactive.Accessor, path string) (any, bool) {
	if path == "" {
		return root, true
	}
	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	return resolve(rt, root, segments)
}

// resolve walks segments from root. It reports false when a hop is not a
// container. Raw containers met outside a reaction are wrapped on the way.
func resolve(rt *reactive.Runtime, root reactive.Accessor, segments []string) (any, bool) {
	var cur any = root
	for _, seg := range segments {
		acc, ok := rt.Reactive(cur).(reactive.Accessor)
		if !ok {
			return nil, false
		}
		cur = acc.Get(seg)
	}
	return cur, true
}

func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrEmptyPath, path)
		}
	}
	return segments, nil
}

// sameNode compares nodes by identity without panicking on dynamic values
// that are not comparable.
func sameNode(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

func nodeName(node Node) string {
	if node == nil {
		return ""
	}
	return node.Name()
}
