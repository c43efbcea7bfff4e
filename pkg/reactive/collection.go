package reactive

import "slices"

// Map is a raw map-like collection with insertion-ordered keys. Keys must be
// comparable, as for a Go map.
type Map struct {
	keys   []any
	values map[any]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[any]any)}
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key.
func (m *Map) Set(key, value any) {
	if m.values == nil {
		m.values = make(map[any]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	m.keys = removeKey(m.keys, key)
	return true
}

// Clear removes every entry.
func (m *Map) Clear() {
	m.keys = nil
	clear(m.values)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Set is a raw set-like collection with insertion-ordered, comparable members.
type Set struct {
	members []any
	index   map[any]struct{}
}

// NewSet creates a Set holding values.
func NewSet(values ...any) *Set {
	s := &Set{index: make(map[any]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	_, ok := s.index[v]
	return ok
}

// Add inserts v and reports whether it was new.
func (s *Set) Add(v any) bool {
	if s.index == nil {
		s.index = make(map[any]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.members = append(s.members, v)
	return true
}

// Delete removes v and reports whether it was a member.
func (s *Set) Delete(v any) bool {
	if _, ok := s.index[v]; !ok {
		return false
	}
	delete(s.index, v)
	s.members = removeKey(s.members, v)
	return true
}

// Clear removes every member.
func (s *Set) Clear() {
	s.members = nil
	clear(s.index)
}

// Values returns a copy of the members in insertion order.
func (s *Set) Values() []any {
	return slices.Clone(s.members)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

func removeKey(keys []any, key any) []any {
	for i, k := range keys {
		if k == key {
			return slices.Delete(keys, i, i+1)
		}
	}
	return keys
}
