package reactive

import (
	"reflect"
	"testing"
)

// observeArrayOps records the Operation of every re-run of a reaction that
// reads the array's length.
func observeArrayOps(rt *Runtime, arr *ArrayProxy) *[]*Operation {
	var ops []*Operation
	rt.Observe(func(op *Operation) {
		_ = arr.Len()
		if op != nil {
			ops = append(ops, op)
		}
	})
	return &ops
}

func checkArrayOp(t *testing.T, got *ArrayOp, want ArrayOp) {
	t.Helper()
	if got == nil {
		t.Fatal("expected an ArrayOp")
	}
	if !reflect.DeepEqual(got.Inserted, want.Inserted) || got.InsertedStart != want.InsertedStart {
		t.Errorf("inserted = %v@%d, want %v@%d", got.Inserted, got.InsertedStart, want.Inserted, want.InsertedStart)
	}
	if !reflect.DeepEqual(got.Deleted, want.Deleted) || got.DeletedStart != want.DeletedStart {
		t.Errorf("deleted = %v@%d, want %v@%d", got.Deleted, got.DeletedStart, want.Deleted, want.DeletedStart)
	}
}

func TestArrayPushDescriptor(t *testing.T) {
	rt := NewRuntime()
	arr := rt.ArrayOf(NewArray(1, 2, 3))
	ops := observeArrayOps(rt, arr)

	if n := arr.Push(4); n != 4 {
		t.Errorf("Push returned %d, want 4", n)
	}
	if len(*ops) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(*ops))
	}
	op := (*ops)[0]
	if op.Kind != OpArray {
		t.Errorf("Kind = %v, want array-op", op.Kind)
	}
	checkArrayOp(t, op.Array, ArrayOp{Inserted: []any{4}, InsertedStart: 3, DeletedStart: -1})
}

func TestArraySpliceDescriptor(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray(1, 2, 3)
	arr := rt.ArrayOf(raw)
	ops := observeArrayOps(rt, arr)

	deleted := arr.Splice(1, 1, 9)
	if !reflect.DeepEqual(deleted, []any{2}) {
		t.Errorf("Splice returned %v, want [2]", deleted)
	}
	if !reflect.DeepEqual(raw.Items(), []any{1, 9, 3}) {
		t.Errorf("items = %v, want [1 9 3]", raw.Items())
	}
	if len(*ops) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(*ops))
	}
	checkArrayOp(t, (*ops)[0].Array, ArrayOp{Inserted: []any{9}, InsertedStart: 1, Deleted: []any{2}, DeletedStart: 1})
}

func TestArraySpliceNegativeStart(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray(1, 2, 3, 4)
	arr := rt.ArrayOf(raw)
	ops := observeArrayOps(rt, arr)

	deleted := arr.Splice(-2, 1)
	if !reflect.DeepEqual(deleted, []any{3}) {
		t.Errorf("Splice returned %v, want [3]", deleted)
	}
	checkArrayOp(t, (*ops)[0].Array, ArrayOp{InsertedStart: -1, Deleted: []any{3}, DeletedStart: 2})

	if got := arr.Splice(1, 0); got != nil {
		t.Errorf("empty splice returned %v", got)
	}
	if len(*ops) != 1 {
		t.Errorf("empty splice should not trigger, got %d triggers", len(*ops))
	}
}

func TestArrayPopShiftUnshift(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray("a", "b", "c")
	arr := rt.ArrayOf(raw)
	ops := observeArrayOps(rt, arr)

	v, ok := arr.Pop()
	if !ok || v != "c" {
		t.Fatalf("Pop = %v, %v", v, ok)
	}
	checkArrayOp(t, (*ops)[0].Array, ArrayOp{InsertedStart: -1, Deleted: []any{"c"}, DeletedStart: 2})

	v, ok = arr.Shift()
	if !ok || v != "a" {
		t.Fatalf("Shift = %v, %v", v, ok)
	}
	checkArrayOp(t, (*ops)[1].Array, ArrayOp{InsertedStart: -1, Deleted: []any{"a"}, DeletedStart: 0})

	if n := arr.Unshift("x", "y"); n != 3 {
		t.Errorf("Unshift returned %d, want 3", n)
	}
	checkArrayOp(t, (*ops)[2].Array, ArrayOp{Inserted: []any{"x", "y"}, InsertedStart: 0, DeletedStart: -1})

	if !reflect.DeepEqual(raw.Items(), []any{"x", "y", "b"}) {
		t.Errorf("items = %v", raw.Items())
	}
}

func TestArrayEmptyMutatorsDoNotTrigger(t *testing.T) {
	rt := NewRuntime()
	arr := rt.ArrayOf(NewArray())
	ops := observeArrayOps(rt, arr)

	if _, ok := arr.Pop(); ok {
		t.Error("Pop on empty array should report false")
	}
	if _, ok := arr.Shift(); ok {
		t.Error("Shift on empty array should report false")
	}
	arr.Push()
	arr.Unshift()

	if len(*ops) != 0 {
		t.Errorf("expected no triggers, got %d", len(*ops))
	}
}

func TestArrayIndexReaders(t *testing.T) {
	rt := NewRuntime()
	arr := rt.ArrayOf(NewArray(1, 2, 3))

	runs := 0
	rt.Observe(func(*Operation) {
		_ = arr.At(1)
		runs++
	})

	arr.Push(4)
	if runs != 1 {
		t.Errorf("push does not move index 1, got %d runs", runs)
	}

	arr.Shift()
	if runs != 2 {
		t.Errorf("shift moves index 1, got %d runs", runs)
	}

	arr.Splice(0, 1, "a")
	if runs != 2 {
		t.Errorf("same-length splice at 0 does not touch index 1, got %d runs", runs)
	}

	arr.SetAt(1, 100)
	if runs != 3 {
		t.Errorf("direct write to index 1 should re-run, got %d runs", runs)
	}
}

func TestArraySetPastEndIsAdd(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray(1)
	arr := rt.ArrayOf(raw)
	ops := observeArrayOps(rt, arr)

	arr.Set(3, "x")
	if raw.Len() != 4 {
		t.Fatalf("Len = %d, want 4", raw.Len())
	}
	if len(*ops) != 1 || (*ops)[0].Kind != OpAdd || (*ops)[0].Key != 3 {
		t.Fatalf("expected add at 3, got %+v", *ops)
	}

	arr.SetAt(0, 1)
	if len(*ops) != 1 {
		t.Errorf("identical write should not trigger, got %d", len(*ops))
	}

	arr.SetAt(-1, "ignored")
	if raw.Len() != 4 {
		t.Error("negative index should be ignored")
	}

	if !arr.Delete(0) || arr.Delete(10) {
		t.Error("Delete should report whether the index was in range")
	}
	if raw.At(0) != nil || raw.Len() != 4 {
		t.Error("Delete should clear without shifting")
	}
}

func TestArraySearchUsesRawValues(t *testing.T) {
	rt := NewRuntime()
	child := NewObject()
	arr := rt.ArrayOf(NewArray(1, child, 1))

	cp := arr.At(1)
	if !rt.IsReactive(cp) {
		t.Fatalf("At(1) should return a proxy, got %T", cp)
	}
	if i := arr.IndexOf(cp); i != 1 {
		t.Errorf("IndexOf(proxy) = %d, want 1", i)
	}
	if i := arr.IndexOf(child); i != 1 {
		t.Errorf("IndexOf(raw) = %d, want 1", i)
	}
	if i := arr.LastIndexOf(1); i != 2 {
		t.Errorf("LastIndexOf(1) = %d, want 2", i)
	}
	if arr.Includes(5) {
		t.Error("Includes(5) should be false")
	}
}

func TestArrayPushStoresRaw(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray()
	arr := rt.ArrayOf(raw)
	child := NewObject()

	arr.Push(rt.ObjectOf(child))
	if raw.At(0) != any(child) {
		t.Errorf("stored %T, want raw *Object", raw.At(0))
	}
}

func TestArrayIteration(t *testing.T) {
	rt := NewRuntime()
	arr := rt.ArrayOf(NewArray("a", "b"))

	var seen []any
	runs := 0
	rt.Observe(func(*Operation) {
		runs++
		seen = seen[:0]
		for _, v := range arr.All() {
			seen = append(seen, v)
		}
	})

	arr.SetAt(1, "z")
	if runs != 2 {
		t.Errorf("iteration reads every index, expected 2 runs, got %d", runs)
	}
	if !reflect.DeepEqual(seen, []any{"a", "z"}) {
		t.Errorf("seen = %v", seen)
	}
	if !reflect.DeepEqual(arr.Values(), []any{"a", "z"}) {
		t.Errorf("Values = %v", arr.Values())
	}
	if !reflect.DeepEqual(arr.Keys(), []any{0, 1}) {
		t.Errorf("Keys = %v", arr.Keys())
	}
	if !arr.Has(1) || arr.Has(2) || arr.Get("1") != "z" {
		t.Error("Has/Get mismatch")
	}
}
