package reactive

import "slices"

// Array is a raw indexed sequence. Its methods mirror the native mutators
// that ArrayProxy instruments and are untracked.
type Array struct {
	items []any
}

// NewArray creates an Array holding items.
func NewArray(items ...any) *Array {
	return &Array{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// SetAt stores value at index i, growing the array with nil elements when
// i is past the end. Negative indexes are ignored.
func (a *Array) SetAt(i int, value any) {
	if i < 0 {
		return
	}
	for len(a.items) <= i {
		a.items = append(a.items, nil)
	}
	a.items[i] = value
}

// Items returns a copy of the elements.
func (a *Array) Items() []any {
	return slices.Clone(a.items)
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	a.items = append(a.items, items...)
	return len(a.items)
}

// Pop removes and returns the last element.
func (a *Array) Pop() (any, bool) {
	n := len(a.items)
	if n == 0 {
		return nil, false
	}
	v := a.items[n-1]
	a.items[n-1] = nil
	a.items = a.items[:n-1]
	return v, true
}

// Shift removes and returns the first element.
func (a *Array) Shift() (any, bool) {
	if len(a.items) == 0 {
		return nil, false
	}
	v := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	return v, true
}

// Unshift inserts items at the front and returns the new length.
func (a *Array) Unshift(items ...any) int {
	a.items = slices.Insert(a.items, 0, items...)
	return len(a.items)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts back
// from the end; start and deleteCount are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	start, deleteCount = a.spliceBounds(start, deleteCount)
	var deleted []any
	if deleteCount > 0 {
		deleted = slices.Clone(a.items[start : start+deleteCount])
	}
	a.items = slices.Replace(a.items, start, start+deleteCount, items...)
	return deleted
}

// spliceBounds normalizes splice arguments against the current length.
func (a *Array) spliceBounds(start, deleteCount int) (int, int) {
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	} else if start > n {
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)
	return start, deleteCount
}
