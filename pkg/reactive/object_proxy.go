package reactive

// objectTarget is the raw side of the plain-object strategy.
type objectTarget interface {
	// get returns the value to hand out for key. For nested struct values
	// this is the address of the field, so the nested value can be wrapped.
	get(key string) (any, bool)

	// value returns the stored value of key, for change detection.
	value(key string) any

	set(key string, v any)
	remove(key string) bool
	keys() []string
}

// objectAdapter adapts *Object to objectTarget.
type objectAdapter struct {
	o *Object
}

func (a objectAdapter) get(key string) (any, bool) { return a.o.Get(key) }
func (a objectAdapter) set(key string, v any)      { a.o.Set(key, v) }
func (a objectAdapter) remove(key string) bool     { return a.o.Delete(key) }
func (a objectAdapter) keys() []string             { return a.o.keys }

func (a objectAdapter) value(key string) any {
	v, _ := a.o.Get(key)
	return v
}

// ObjectProxy wraps a plain object: an *Object or a struct pointer.
type ObjectProxy struct {
	rt  *Runtime
	raw any
	obj objectTarget
}

func (p *ObjectProxy) target() any { return p.raw }

// Get returns the value of key, tracked. Structured values are returned as
// proxies. Non-string keys are converted to their string form.
func (p *ObjectProxy) Get(key any) any {
	k := propertyKey(key)
	p.rt.track(OpGet, p.raw, k)
	v, _ := p.obj.get(k)
	return p.rt.Reactive(v)
}

// Has reports whether key is present, tracked.
func (p *ObjectProxy) Has(key any) bool {
	k := propertyKey(key)
	p.rt.track(OpHas, p.raw, k)
	_, ok := p.obj.get(k)
	return ok
}

// Set writes value under key. Proxies are stored as their raw objects.
// Writing an absent key notifies with OpAdd, changing an existing key with
// OpSet; writing the same value notifies nobody.
//
// On struct-backed proxies, Set panics with ErrUnknownField or ErrFieldType
// when key does not name an exported field or value does not fit it.
func (p *ObjectProxy) Set(key, value any) {
	k := propertyKey(key)
	value = p.rt.Raw(value)

	_, had := p.obj.get(k)
	old := p.obj.value(k)
	p.obj.set(k, value)
	stored := p.obj.value(k)

	switch {
	case !had:
		p.rt.trigger(&Operation{Kind: OpAdd, Target: p.raw, Key: k, Value: stored}, []any{k}, IterateKey)
	case !sameValue(old, stored):
		p.rt.trigger(&Operation{Kind: OpSet, Target: p.raw, Key: k, Value: stored, OldValue: old}, []any{k}, IterateKey)
	}
}

// Delete removes key and reports whether it was present. Struct fields
// cannot be removed.
func (p *ObjectProxy) Delete(key any) bool {
	k := propertyKey(key)
	if _, had := p.obj.get(k); !had {
		return false
	}
	old := p.obj.value(k)
	if !p.obj.remove(k) {
		return false
	}
	p.rt.trigger(&Operation{Kind: OpDelete, Target: p.raw, Key: k, OldValue: old}, []any{k}, IterateKey)
	return true
}

// Keys returns the property names, tracked as an enumeration.
func (p *ObjectProxy) Keys() []any {
	p.rt.track(OpIterate, p.raw, IterateKey)
	keys := p.obj.keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// Len returns the number of properties, tracked as an enumeration.
func (p *ObjectProxy) Len() int {
	p.rt.track(OpIterate, p.raw, IterateKey)
	return len(p.obj.keys())
}

// Range calls fn for each property in order until fn returns false. The
// enumeration and every value read are tracked.
func (p *ObjectProxy) Range(fn func(key string, value any) bool) {
	p.rt.track(OpIterate, p.raw, IterateKey)
	keys := append([]string(nil), p.obj.keys()...)
	for _, k := range keys {
		if !fn(k, p.Get(k)) {
			return
		}
	}
}
