package reactive

import (
	"testing"
)

// Benchmark tests for proxies and reactions.

func BenchmarkObjectGetNoTracking(b *testing.B) {
	rt := NewRuntime()
	o := rt.ObjectOf(NewObject("hp", 42))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = o.Get("hp")
	}
}

func BenchmarkObjectGetWithTracking(b *testing.B) {
	rt := NewRuntime()
	o := rt.ObjectOf(NewObject("hp", 42))
	r := rt.Observe(func(*Operation) {}, Lazy())
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rt.stack = append(rt.stack, r)
		_ = o.Get("hp")
		rt.pop(r)
	}
}

func BenchmarkObjectSetNoReactions(b *testing.B) {
	rt := NewRuntime()
	o := rt.ObjectOf(NewObject("hp", 0))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		o.Set("hp", i)
	}
}

func BenchmarkObjectSet10Reactions(b *testing.B) {
	rt := NewRuntime()
	o := rt.ObjectOf(NewObject("hp", 0))
	for range 10 {
		rt.Observe(func(*Operation) {
			_ = o.Get("hp")
		})
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		o.Set("hp", i)
	}
}

func BenchmarkNestedPathRead(b *testing.B) {
	rt := NewRuntime()
	root := rt.ObjectOf(NewObject("player", NewObject("pos", NewObject("x", 1))))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rt.Observe(func(*Operation) {
			player := root.Get("player").(*ObjectProxy)
			pos := player.Get("pos").(*ObjectProxy)
			_ = pos.Get("x")
		}).Stop()
	}
}

func BenchmarkArrayPush(b *testing.B) {
	rt := NewRuntime()
	arr := rt.ArrayOf(NewArray())
	rt.Observe(func(*Operation) {
		_ = arr.Len()
	})
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		arr.Push(i)
	}
}

func BenchmarkMapSet(b *testing.B) {
	rt := NewRuntime()
	m := rt.MapOf(NewMap())
	rt.Observe(func(*Operation) {
		_ = m.Get(0)
	})
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Set(i%64, i)
	}
}
