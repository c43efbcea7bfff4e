package reactive

import (
	"net/url"
	"reflect"
	"testing"
	"time"
)

func TestReactiveIsIdempotent(t *testing.T) {
	rt := NewRuntime()
	raw := NewObject("a", 1)

	p := rt.Reactive(raw)
	if p == any(raw) {
		t.Fatal("Reactive should return a proxy for *Object")
	}
	if rt.Reactive(p) != p {
		t.Error("wrapping a proxy should return it unchanged")
	}
	if rt.Reactive(raw) != p {
		t.Error("re-wrapping a raw object should return the existing proxy")
	}
	if rt.Raw(p) != any(raw) {
		t.Error("Raw should return the original object")
	}
	if len(rt.store.targets) != 1 {
		t.Errorf("expected 1 dependency entry, got %d", len(rt.store.targets))
	}
}

func TestLookupAndRaw(t *testing.T) {
	rt := NewRuntime()
	raw := NewArray(1)
	p := rt.ArrayOf(raw)

	got, ok := rt.Lookup(p)
	if !ok || got != any(raw) {
		t.Errorf("Lookup(proxy) = %v, %v", got, ok)
	}

	if got, ok := rt.Lookup(raw); ok || got != nil {
		t.Errorf("Lookup(raw) = %v, %v; want nil, false", got, ok)
	}
	if got, ok := rt.Lookup(42); ok || got != nil {
		t.Errorf("Lookup(42) = %v, %v; want nil, false", got, ok)
	}

	if rt.Raw(42) != 42 {
		t.Error("Raw should return non-proxies unchanged")
	}
	if rt.Raw(raw) != any(raw) {
		t.Error("Raw of a raw object should return it unchanged")
	}
	if !rt.IsReactive(p) || rt.IsReactive(raw) {
		t.Error("IsReactive mismatch")
	}
}

func TestPrimitivesPassThrough(t *testing.T) {
	rt := NewRuntime()

	for _, v := range []any{nil, 1, "s", 2.5, true, []int{1}} {
		got := rt.Reactive(v)
		if rt.IsReactive(got) {
			t.Errorf("Reactive(%v) should not produce a proxy", v)
		}
	}
	if len(rt.store.targets) != 0 {
		t.Errorf("primitives should not allocate dependency entries, got %d", len(rt.store.targets))
	}
}

func TestStdlibStructsAreExcluded(t *testing.T) {
	rt := NewRuntime()

	tm := &time.Time{}
	if rt.Reactive(tm) != any(tm) {
		t.Error("*time.Time should pass through unwrapped")
	}

	u := &url.URL{Host: "example.com"}
	if rt.StructOf(u) != nil {
		t.Error("*url.URL should not be wrapped by default")
	}

	rt2 := NewRuntime(WithInstrumentedTypes(reflect.TypeOf(&url.URL{})))
	p := rt2.StructOf(u)
	if p == nil {
		t.Fatal("registered *url.URL should be wrapped")
	}
	if p.Get("Host") != "example.com" {
		t.Errorf("Host = %v, want example.com", p.Get("Host"))
	}
}

type excludedModel struct {
	Value int
}

func TestExcludedTypes(t *testing.T) {
	rt := NewRuntime(WithExcludedTypes(reflect.TypeOf(&excludedModel{})))

	m := &excludedModel{Value: 1}
	if rt.Reactive(m) != any(m) {
		t.Error("excluded type should pass through unwrapped")
	}
}

func TestNestedValuesAreWrapped(t *testing.T) {
	rt := NewRuntime()
	child := NewObject("x", 1)
	raw := NewObject("child", child)
	o := rt.ObjectOf(raw)

	got, ok := o.Get("child").(*ObjectProxy)
	if !ok {
		t.Fatalf("expected *ObjectProxy, got %T", o.Get("child"))
	}
	if o.Get("child") != any(got) {
		t.Error("nested proxy should be stable across reads")
	}
	if rt.Raw(got) != any(child) {
		t.Error("nested proxy should unwrap to the raw child")
	}
}

func TestProxiesNeverLeakIntoRawStorage(t *testing.T) {
	rt := NewRuntime()
	other := NewRuntime()

	raw := NewObject()
	o := rt.ObjectOf(raw)

	child := NewObject("x", 1)
	o.Set("mine", rt.ObjectOf(child))
	o.Set("foreign", other.ObjectOf(child))

	for _, key := range []string{"mine", "foreign"} {
		v, _ := raw.Get(key)
		if v != any(child) {
			t.Errorf("%s: stored %T, want raw *Object", key, v)
		}
	}
}

func TestDefaultRuntime(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default should return the same runtime")
	}

	raw := NewSet("a")
	p := SetOf(raw)
	if !IsReactive(p) {
		t.Error("SetOf should produce a proxy of the default runtime")
	}
	if Raw(p) != any(raw) {
		t.Error("Raw should unwrap with the default runtime")
	}
	if v, ok := Lookup(p); !ok || v != any(raw) {
		t.Error("Lookup should find the proxy in the default runtime")
	}
	if Reactive(p) != any(p) {
		t.Error("Reactive should be idempotent on the default runtime")
	}
	if MapOf(NewMap()) == nil || ArrayOf(NewArray()) == nil {
		t.Error("typed helpers should produce proxies")
	}
}
