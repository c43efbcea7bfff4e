package reactive

// OpKind identifies what happened to a raw object.
type OpKind uint8

const (
	// OpGet is a read of a single key.
	OpGet OpKind = iota + 1
	// OpIterate is an enumeration of keys, or a length read on an Array.
	OpIterate
	// OpAdd is a write to a key that did not exist.
	OpAdd
	// OpSet is a write that changed the value of an existing key.
	OpSet
	// OpDelete is the removal of an existing key.
	OpDelete
	// OpClear empties a keyed collection.
	OpClear
	// OpHas is a membership test.
	OpHas
	// OpArray is a positional Array mutation (push, pop, shift, unshift, splice).
	OpArray
)

// String returns the lower-case name of the kind.
func (k OpKind) String() string {
	switch k {
	case OpGet:
		return "get"
	case OpIterate:
		return "iterate"
	case OpAdd:
		return "add"
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	case OpHas:
		return "has"
	case OpArray:
		return "array-op"
	default:
		return "unknown"
	}
}

// structural reports whether writes of this kind change the key set (or
// length) of the target, which also notifies iterating readers.
func (k OpKind) structural() bool {
	switch k {
	case OpAdd, OpDelete, OpClear, OpArray:
		return true
	}
	return false
}

// iterationKey is the type of IterateKey.
type iterationKey struct{}

// lengthKey is the type of LengthKey.
type lengthKey struct{}

func (iterationKey) String() string { return "<iterate>" }
func (lengthKey) String() string    { return "length" }

var (
	// IterateKey is the reserved key under which enumeration of an
	// Object, struct, Map or Set is tracked.
	IterateKey any = iterationKey{}

	// LengthKey replaces IterateKey for Arrays. Length reads and element
	// iteration are tracked under it.
	LengthKey any = lengthKey{}
)

// ArrayOp describes a positional Array mutation. Unused item slices are nil
// and unused start indexes are -1.
type ArrayOp struct {
	Inserted      []any
	InsertedStart int
	Deleted       []any
	DeletedStart  int
}

// Operation describes a read or a write on a raw object. Reactions receive
// the Operation that triggered them; the initial run receives nil.
type Operation struct {
	Kind OpKind

	// Target is the raw object, never a proxy.
	Target any

	// Key is the property, index or collection key involved, when there is one.
	Key any

	// Value is the raw value written, for add and set.
	Value any

	// OldValue is the raw value replaced or removed, for set and delete.
	OldValue any

	// Array is set for OpArray only.
	Array *ArrayOp
}
