package reactive

import "reflect"

// sameValue reports whether a and b are the same value by identity:
// == for comparable values, reference identity for slices, maps, funcs and
// channels. Structs and arrays are the same when every field or element
// is. Values of different dynamic types are never the same.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameReflect(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameReflect(va, vb reflect.Value) bool {
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return sameReflect(va.Elem(), vb.Elem())
	case reflect.Struct:
		for i := range va.NumField() {
			if !sameReflect(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range va.Len() {
			if !sameReflect(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	}
	return va.Equal(vb)
}
