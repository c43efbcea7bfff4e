package model

import "github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"

// Snapshot converts a raw tree, or a proxy of one, into plain Go values:
// map[string]any for objects, []any for arrays and sets, map[any]any for
// keyed collections. Shared containers are copied at every occurrence;
// a cycle is cut with nil.
func Snapshot(v any) any {
	return snapshot(reactive.Raw(v), make(map[any]bool))
}

func snapshot(v any, visiting map[any]bool) any {
	v = reactive.Raw(v)
	switch x := v.(type) {
	case *reactive.Object:
		if visiting[x] {
			return nil
		}
		visiting[x] = true
		defer delete(visiting, x)
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = snapshot(val, visiting)
		}
		return out
	case *reactive.Array:
		if visiting[x] {
			return nil
		}
		visiting[x] = true
		defer delete(visiting, x)
		out := make([]any, x.Len())
		for i, item := range x.Items() {
			out[i] = snapshot(item, visiting)
		}
		return out
	case *reactive.Map:
		if visiting[x] {
			return nil
		}
		visiting[x] = true
		defer delete(visiting, x)
		out := make(map[any]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = snapshot(val, visiting)
		}
		return out
	case *reactive.Set:
		if visiting[x] {
			return nil
		}
		visiting[x] = true
		defer delete(visiting, x)
		out := make([]any, 0, x.Len())
		for _, item := range x.Values() {
			out = append(out, snapshot(item, visiting))
		}
		return out
	}
	return v
}

// Stats counts the containers and scalars of a tree.
type Stats struct {
	Objects int `json:"objects" yaml:"objects"`
	Arrays  int `json:"arrays" yaml:"arrays"`
	Maps    int `json:"maps" yaml:"maps"`
	Sets    int `json:"sets" yaml:"sets"`
	Scalars int `json:"scalars" yaml:"scalars"`

	// Depth is the longest container nesting; a lone scalar has depth 0.
	Depth int `json:"depth" yaml:"depth"`
}

// Containers returns the number of wrappable containers.
func (s Stats) Containers() int {
	return s.Objects + s.Arrays + s.Maps + s.Sets
}

// Collect walks a tree and counts its nodes. Shared containers are
// counted once.
func Collect(v any) Stats {
	var s Stats
	seen := make(map[any]bool)
	var walk func(v any, depth int)
	walk = func(v any, depth int) {
		v = reactive.Raw(v)
		var children []any
		switch x := v.(type) {
		case *reactive.Object:
			if seen[x] {
				return
			}
			seen[x] = true
			s.Objects++
			for _, k := range x.Keys() {
				val, _ := x.Get(k)
				children = append(children, val)
			}
		case *reactive.Array:
			if seen[x] {
				return
			}
			seen[x] = true
			s.Arrays++
			children = x.Items()
		case *reactive.Map:
			if seen[x] {
				return
			}
			seen[x] = true
			s.Maps++
			for _, k := range x.Keys() {
				val, _ := x.Get(k)
				children = append(children, val)
			}
		case *reactive.Set:
			if seen[x] {
				return
			}
			seen[x] = true
			s.Sets++
			children = x.Values()
		default:
			s.Scalars++
			return
		}
		s.Depth = max(s.Depth, depth+1)
		for _, c := range children {
			walk(c, depth+1)
		}
	}
	walk(v, 0)
	return s
}
