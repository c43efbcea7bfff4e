package reactive

import "iter"

// ArrayProxy wraps an *Array. Element access behaves like ObjectProxy with
// int keys; length reads and iteration are tracked under LengthKey.
// Positional mutators notify with an OpArray Operation carrying an ArrayOp.
type ArrayProxy struct {
	rt  *Runtime
	arr *Array
}

func (p *ArrayProxy) target() any { return p.arr }

// At returns the element at index i, tracked. Structured elements are
// returned as proxies; out-of-range indexes yield nil.
func (p *ArrayProxy) At(i int) any {
	p.rt.track(OpGet, p.arr, i)
	return p.rt.Reactive(p.arr.At(i))
}

// Get is At for an index given as any integer type or decimal string.
func (p *ArrayProxy) Get(key any) any {
	i, ok := indexKey(key)
	if !ok {
		return nil
	}
	return p.At(i)
}

// SetAt writes value at index i. Writing past the end grows the array and
// notifies with OpAdd; replacing an element with a different value
// notifies with OpSet. Negative indexes are ignored.
func (p *ArrayProxy) SetAt(i int, value any) {
	if i < 0 {
		return
	}
	value = p.rt.Raw(value)
	had := i < p.arr.Len()
	old := p.arr.At(i)
	p.arr.SetAt(i, value)

	switch {
	case !had:
		p.rt.trigger(&Operation{Kind: OpAdd, Target: p.arr, Key: i, Value: value}, []any{i}, LengthKey)
	case !sameValue(old, value):
		p.rt.trigger(&Operation{Kind: OpSet, Target: p.arr, Key: i, Value: value, OldValue: old}, []any{i}, LengthKey)
	}
}

// Set is SetAt for an index given as any integer type or decimal string.
func (p *ArrayProxy) Set(key, value any) {
	if i, ok := indexKey(key); ok {
		p.SetAt(i, value)
	}
}

// Has reports whether index key is in range, tracked.
func (p *ArrayProxy) Has(key any) bool {
	i, ok := indexKey(key)
	if !ok {
		return false
	}
	p.rt.track(OpHas, p.arr, i)
	return i >= 0 && i < p.arr.Len()
}

// Delete clears the element at index key to nil without shifting, and
// reports whether the index was in range.
func (p *ArrayProxy) Delete(key any) bool {
	i, ok := indexKey(key)
	if !ok || i < 0 || i >= p.arr.Len() {
		return false
	}
	old := p.arr.At(i)
	p.arr.SetAt(i, nil)
	p.rt.trigger(&Operation{Kind: OpDelete, Target: p.arr, Key: i, OldValue: old}, []any{i}, LengthKey)
	return true
}

// Len returns the length, tracked under LengthKey.
func (p *ArrayProxy) Len() int {
	p.rt.track(OpIterate, p.arr, LengthKey)
	return p.arr.Len()
}

// Keys returns the indexes, tracked under LengthKey.
func (p *ArrayProxy) Keys() []any {
	n := p.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = i
	}
	return out
}

// Values returns every element, tracking the length and each index.
func (p *ArrayProxy) Values() []any {
	n := p.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = p.At(i)
	}
	return out
}

// All iterates index/element pairs, tracking the length and each index read.
func (p *ArrayProxy) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < p.Len(); i++ {
			if !yield(i, p.At(i)) {
				return
			}
		}
	}
}

// IndexOf returns the first index holding v, or -1. v is de-wrapped before
// comparison because elements are stored raw.
func (p *ArrayProxy) IndexOf(v any) int {
	v = p.rt.Raw(v)
	n := p.Len()
	for i := 0; i < n; i++ {
		p.rt.track(OpGet, p.arr, i)
		if sameValue(p.arr.At(i), v) {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last index holding v, or -1.
func (p *ArrayProxy) LastIndexOf(v any) int {
	v = p.rt.Raw(v)
	for i := p.Len() - 1; i >= 0; i-- {
		p.rt.track(OpGet, p.arr, i)
		if sameValue(p.arr.At(i), v) {
			return i
		}
	}
	return -1
}

// Includes reports whether v is an element.
func (p *ArrayProxy) Includes(v any) bool {
	return p.IndexOf(v) >= 0
}

// Push appends items and returns the new length.
func (p *ArrayProxy) Push(items ...any) int {
	items = p.rt.rawAll(items)
	oldLen := p.arr.Len()
	n := p.arr.Push(items...)
	if len(items) > 0 {
		p.triggerArray(oldLen, oldLen, n, &ArrayOp{
			Inserted:      items,
			InsertedStart: oldLen,
			DeletedStart:  -1,
		})
	}
	return n
}

// Pop removes and returns the last element. It reports false, and notifies
// nobody, when the array is empty.
func (p *ArrayProxy) Pop() (any, bool) {
	oldLen := p.arr.Len()
	v, ok := p.arr.Pop()
	if !ok {
		return nil, false
	}
	p.triggerArray(oldLen-1, oldLen, oldLen-1, &ArrayOp{
		InsertedStart: -1,
		Deleted:       []any{v},
		DeletedStart:  oldLen - 1,
	})
	return p.rt.Reactive(v), true
}

// Shift removes and returns the first element.
func (p *ArrayProxy) Shift() (any, bool) {
	oldLen := p.arr.Len()
	v, ok := p.arr.Shift()
	if !ok {
		return nil, false
	}
	p.triggerArray(0, oldLen, oldLen-1, &ArrayOp{
		InsertedStart: -1,
		Deleted:       []any{v},
		DeletedStart:  0,
	})
	return p.rt.Reactive(v), true
}

// Unshift inserts items at the front and returns the new length.
func (p *ArrayProxy) Unshift(items ...any) int {
	items = p.rt.rawAll(items)
	oldLen := p.arr.Len()
	n := p.arr.Unshift(items...)
	if len(items) > 0 {
		p.triggerArray(0, oldLen, n, &ArrayOp{
			Inserted:      items,
			InsertedStart: 0,
			DeletedStart:  -1,
		})
	}
	return n
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end.
func (p *ArrayProxy) Splice(start, deleteCount int, items ...any) []any {
	items = p.rt.rawAll(items)
	oldLen := p.arr.Len()
	start, _ = p.arr.spliceBounds(start, deleteCount)
	deleted := p.arr.Splice(start, deleteCount, items...)
	if len(deleted) == 0 && len(items) == 0 {
		return nil
	}

	op := &ArrayOp{InsertedStart: -1, DeletedStart: -1}
	if len(items) > 0 {
		op.Inserted = items
		op.InsertedStart = start
	}
	if len(deleted) > 0 {
		op.Deleted = deleted
		op.DeletedStart = start
	}
	p.triggerArray(start, oldLen, p.arr.Len(), op)

	out := make([]any, len(deleted))
	for i, v := range deleted {
		out[i] = p.rt.Reactive(v)
	}
	return out
}

// triggerArray notifies readers of the length and of every index from
// `from` whose slot changed. When the length is unchanged only the
// overwritten range is affected.
func (p *ArrayProxy) triggerArray(from, oldLen, newLen int, arrOp *ArrayOp) {
	end := max(oldLen, newLen)
	if oldLen == newLen {
		end = from + len(arrOp.Inserted)
	}
	keys := make([]any, 0, max(end-from, 0))
	for i := from; i < end; i++ {
		keys = append(keys, i)
	}
	p.rt.trigger(&Operation{Kind: OpArray, Target: p.arr, Array: arrOp}, keys, LengthKey)
}
