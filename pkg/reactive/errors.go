package reactive

import "errors"

// ErrUnknownField is the panic cause when a struct-backed proxy is asked to
// write a field the struct does not export.
var ErrUnknownField = errors.New("reactive: unknown struct field")

// ErrFieldType is the panic cause when a value cannot be assigned or
// converted to the type of the struct field being written.
var ErrFieldType = errors.New("reactive: value not assignable to struct field")
