package reactive

import (
	"reflect"
	"strings"
)

// Kind is the interception strategy a raw object is wrapped with.
type Kind uint8

const (
	// KindNone marks primitives and excluded types, which are never wrapped.
	KindNone Kind = iota
	// KindObject is the plain-object strategy (*Object and struct pointers).
	KindObject
	// KindArray is the indexed-sequence strategy (*Array).
	KindArray
	// KindCollection is the keyed-collection strategy (*Map and *Set).
	KindCollection
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindCollection:
		return "collection"
	default:
		return "none"
	}
}

// kindRegistry decides which strategy applies to a raw value.
type kindRegistry struct {
	// instrumented lists struct pointer types wrapped even though they come
	// from the standard library.
	instrumented map[reflect.Type]bool

	// excluded lists types that are always passed through unwrapped.
	excluded map[reflect.Type]bool
}

func newKindRegistry() *kindRegistry {
	return &kindRegistry{
		instrumented: make(map[reflect.Type]bool),
		excluded:     make(map[reflect.Type]bool),
	}
}

// kindOf returns the strategy for v, or KindNone if v must not be wrapped.
func (kr *kindRegistry) kindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNone
	case *Object:
		if x == nil || kr.excluded[reflect.TypeOf(x)] {
			return KindNone
		}
		return KindObject
	case *Array:
		if x == nil || kr.excluded[reflect.TypeOf(x)] {
			return KindNone
		}
		return KindArray
	case *Map:
		if x == nil || kr.excluded[reflect.TypeOf(x)] {
			return KindNone
		}
		return KindCollection
	case *Set:
		if x == nil || kr.excluded[reflect.TypeOf(x)] {
			return KindNone
		}
		return KindCollection
	}

	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return KindNone
	}
	if kr.excluded[t] || reflect.ValueOf(v).IsNil() {
		return KindNone
	}
	if kr.instrumented[t] || !isStdlibPackage(t.Elem().PkgPath()) {
		return KindObject
	}
	return KindNone
}

// isStdlibPackage reports whether pkgPath belongs to the standard library.
// Standard library import paths have no dot in their first element; "main"
// and unnamed packages hold application types.
func isStdlibPackage(pkgPath string) bool {
	if pkgPath == "" || pkgPath == "main" || pkgPath == "command-line-arguments" {
		return false
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}
