package reactive

import (
	"fmt"
	"strconv"
)

// Proxy is the capability shared by every wrapper: membership, removal and
// key enumeration, all tracked. Application code reads and writes models
// through proxies instead of the raw containers.
type Proxy interface {
	Has(key any) bool
	Delete(key any) bool
	Keys() []any
	Len() int

	target() any
}

// Accessor is a Proxy with keyed reads and writes. ObjectProxy, ArrayProxy
// and MapProxy implement it.
type Accessor interface {
	Proxy
	Get(key any) any
	Set(key, value any)
}

var (
	_ Accessor = (*ObjectProxy)(nil)
	_ Accessor = (*ArrayProxy)(nil)
	_ Accessor = (*MapProxy)(nil)
	_ Proxy    = (*SetProxy)(nil)
)

// Entry is a key/value pair yielded by collection iteration.
type Entry struct {
	Key   any
	Value any
}

// propertyKey converts a key to an object property name.
func propertyKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

// indexKey converts a key to an array index.
func indexKey(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int8:
		return int(k), true
	case int16:
		return int(k), true
	case int32:
		return int(k), true
	case int64:
		return int(k), true
	case uint:
		return int(k), true
	case uint8:
		return int(k), true
	case uint16:
		return int(k), true
	case uint32:
		return int(k), true
	case uint64:
		return int(k), true
	case string:
		i, err := strconv.Atoi(k)
		return i, err == nil
	}
	return 0, false
}
