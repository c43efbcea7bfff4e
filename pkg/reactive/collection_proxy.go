package reactive

import "iter"

// MapProxy wraps a *Map. Keys are de-wrapped before use. Accessors that
// yield values wrap structured values only while a reaction is running.
type MapProxy struct {
	rt *Runtime
	m  *Map
}

func (p *MapProxy) target() any { return p.m }

// Has reports whether key is present, tracked.
func (p *MapProxy) Has(key any) bool {
	key = p.rt.Raw(key)
	p.rt.track(OpHas, p.m, key)
	return p.m.Has(key)
}

// Get returns the value stored under key, tracked.
func (p *MapProxy) Get(key any) any {
	key = p.rt.Raw(key)
	p.rt.track(OpGet, p.m, key)
	v, _ := p.m.Get(key)
	return p.rt.wrapTracked(v)
}

// Set stores value under key, notifying with OpAdd for a new key and OpSet
// for a changed value.
func (p *MapProxy) Set(key, value any) {
	key, value = p.rt.Raw(key), p.rt.Raw(value)
	old, had := p.m.Get(key)
	p.m.Set(key, value)

	switch {
	case !had:
		p.rt.trigger(&Operation{Kind: OpAdd, Target: p.m, Key: key, Value: value}, []any{key}, IterateKey)
	case !sameValue(old, value):
		p.rt.trigger(&Operation{Kind: OpSet, Target: p.m, Key: key, Value: value, OldValue: old}, []any{key}, IterateKey)
	}
}

// Delete removes key and reports whether it was present.
func (p *MapProxy) Delete(key any) bool {
	key = p.rt.Raw(key)
	old, had := p.m.Get(key)
	if !had {
		return false
	}
	p.m.Delete(key)
	p.rt.trigger(&Operation{Kind: OpDelete, Target: p.m, Key: key, OldValue: old}, []any{key}, IterateKey)
	return true
}

// Clear removes every entry, notifying every reader of the map.
func (p *MapProxy) Clear() {
	if p.m.Len() == 0 {
		return
	}
	p.m.Clear()
	p.rt.trigger(&Operation{Kind: OpClear, Target: p.m}, nil, IterateKey)
}

// Size returns the number of entries, tracked as an enumeration.
func (p *MapProxy) Size() int {
	p.rt.track(OpIterate, p.m, IterateKey)
	return p.m.Len()
}

// Len is Size.
func (p *MapProxy) Len() int {
	return p.Size()
}

// Keys returns the keys in insertion order, tracked as an enumeration.
func (p *MapProxy) Keys() []any {
	p.rt.track(OpIterate, p.m, IterateKey)
	keys := p.m.Keys()
	for i, k := range keys {
		keys[i] = p.rt.wrapTracked(k)
	}
	return keys
}

// Values returns the values in key order, tracking the enumeration and
// each key.
func (p *MapProxy) Values() []any {
	entries := p.Entries()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// Entries returns the key/value pairs in insertion order, tracking the
// enumeration and each key.
func (p *MapProxy) Entries() []Entry {
	var out []Entry
	for k, v := range p.All() {
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}

// All is the default iteration over key/value pairs.
func (p *MapProxy) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		p.rt.track(OpIterate, p.m, IterateKey)
		for _, k := range p.m.Keys() {
			p.rt.track(OpGet, p.m, k)
			v, ok := p.m.Get(k)
			if !ok {
				continue
			}
			if !yield(p.rt.wrapTracked(k), p.rt.wrapTracked(v)) {
				return
			}
		}
	}
}

// ForEach calls fn for every entry in insertion order.
func (p *MapProxy) ForEach(fn func(value, key any)) {
	for k, v := range p.All() {
		fn(v, k)
	}
}

// SetProxy wraps a *Set. Members are de-wrapped before use.
type SetProxy struct {
	rt *Runtime
	s  *Set
}

func (p *SetProxy) target() any { return p.s }

// Has reports whether v is a member, tracked.
func (p *SetProxy) Has(v any) bool {
	v = p.rt.Raw(v)
	p.rt.track(OpHas, p.s, v)
	return p.s.Has(v)
}

// Add inserts v, notifying with OpAdd when it is new.
func (p *SetProxy) Add(v any) {
	v = p.rt.Raw(v)
	if p.s.Add(v) {
		p.rt.trigger(&Operation{Kind: OpAdd, Target: p.s, Key: v, Value: v}, []any{v}, IterateKey)
	}
}

// Delete removes v and reports whether it was a member.
func (p *SetProxy) Delete(v any) bool {
	v = p.rt.Raw(v)
	if !p.s.Delete(v) {
		return false
	}
	p.rt.trigger(&Operation{Kind: OpDelete, Target: p.s, Key: v, OldValue: v}, []any{v}, IterateKey)
	return true
}

// Clear removes every member, notifying every reader of the set.
func (p *SetProxy) Clear() {
	if p.s.Len() == 0 {
		return
	}
	p.s.Clear()
	p.rt.trigger(&Operation{Kind: OpClear, Target: p.s}, nil, IterateKey)
}

// Size returns the number of members, tracked as an enumeration.
func (p *SetProxy) Size() int {
	p.rt.track(OpIterate, p.s, IterateKey)
	return p.s.Len()
}

// Len is Size.
func (p *SetProxy) Len() int {
	return p.Size()
}

// Values returns the members in insertion order, tracked as an enumeration.
func (p *SetProxy) Values() []any {
	var out []any
	for v := range p.All() {
		out = append(out, v)
	}
	return out
}

// Keys is Values.
func (p *SetProxy) Keys() []any {
	return p.Values()
}

// Entries returns each member paired with itself.
func (p *SetProxy) Entries() []Entry {
	values := p.Values()
	out := make([]Entry, len(values))
	for i, v := range values {
		out[i] = Entry{Key: v, Value: v}
	}
	return out
}

// All is the default iteration over members.
func (p *SetProxy) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		p.rt.track(OpIterate, p.s, IterateKey)
		for _, v := range p.s.Values() {
			if !yield(p.rt.wrapTracked(v)) {
				return
			}
		}
	}
}

// ForEach calls fn for every member in insertion order.
func (p *SetProxy) ForEach(fn func(v any)) {
	for v := range p.All() {
		fn(v)
	}
}
