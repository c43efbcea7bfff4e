package reactive

import (
	"fmt"
	"reflect"
	"sync"
)

// structField is one exported, addressable field of a struct type.
type structField struct {
	name  string
	index []int
}

// structInfo lists the fields of a struct type in declaration order.
type structInfo struct {
	fields []structField
	byName map[string]int
	names  []string
}

// structInfoCache holds one structInfo per struct type, built on first use.
var structInfoCache sync.Map

func structInfoOf(t reflect.Type) *structInfo {
	if info, ok := structInfoCache.Load(t); ok {
		return info.(*structInfo)
	}

	info := &structInfo{byName: make(map[string]int)}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() || hiddenKind(f.Type.Kind()) {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("reactive"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		if _, dup := info.byName[name]; dup {
			continue
		}
		info.byName[name] = len(info.fields)
		info.fields = append(info.fields, structField{name: name, index: f.Index})
		info.names = append(info.names, name)
	}

	actual, _ := structInfoCache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

// hiddenKind reports whether fields of kind k are left out of a struct
// proxy. Native slices, maps, funcs and channels are neither primitives
// nor wrappable, and exposing them would hand out untracked aliases into
// the struct; use *Array, *Map or *Set fields instead.
func hiddenKind(k reflect.Kind) bool {
	switch k {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// structAdapter adapts a struct pointer to objectTarget. Field names are
// the keys; fields can be read and written but never removed.
type structAdapter struct {
	elem  reflect.Value
	info  *structInfo
	kinds *kindRegistry
}

func newStructAdapter(ptr any, kinds *kindRegistry) structAdapter {
	elem := reflect.ValueOf(ptr).Elem()
	return structAdapter{elem: elem, info: structInfoOf(elem.Type()), kinds: kinds}
}

func (a structAdapter) field(key string) (reflect.Value, bool) {
	i, ok := a.info.byName[key]
	if !ok {
		return reflect.Value{}, false
	}
	f, err := a.elem.FieldByIndexErr(a.info.fields[i].index)
	if err != nil {
		// Promoted through a nil embedded pointer.
		return reflect.Value{}, false
	}
	return f, true
}

func (a structAdapter) get(key string) (any, bool) {
	f, ok := a.field(key)
	if !ok {
		return nil, false
	}
	if f.Kind() == reflect.Struct && f.CanAddr() {
		addr := f.Addr().Interface()
		if a.kinds.kindOf(addr) == KindObject {
			return addr, true
		}
	}
	return f.Interface(), true
}

func (a structAdapter) value(key string) any {
	f, ok := a.field(key)
	if !ok {
		return nil
	}
	return f.Interface()
}

func (a structAdapter) set(key string, v any) {
	f, ok := a.field(key)
	if !ok {
		panic(fmt.Errorf("%w: %s.%s", ErrUnknownField, a.elem.Type(), key))
	}
	if err := assignField(f, v); err != nil {
		panic(fmt.Errorf("%w: %s.%s: %v", ErrFieldType, a.elem.Type(), key, err))
	}
}

func (a structAdapter) remove(string) bool { return false }
func (a structAdapter) keys() []string     { return a.info.names }

// assignField stores v into f. nil stores the zero value, a pointer to the
// field's type stores the pointee, and numbers convert between numeric kinds.
func assignField(f reflect.Value, v any) error {
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == f.Type() && !rv.IsNil():
		f.Set(rv.Elem())
	case isNumberKind(rv.Kind()) && isNumberKind(f.Kind()):
		f.Set(rv.Convert(f.Type()))
	case rv.Kind() == reflect.String && f.Kind() == reflect.String:
		f.Set(rv.Convert(f.Type()))
	default:
		return fmt.Errorf("cannot use %s as %s", rv.Type(), f.Type())
	}
	return nil
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
