// Package reactive provides the observation core for the MVVM toolkit.
//
// Data models are plain Go containers (Object, Array, Map, Set) or struct
// pointers. Wrapping one with Reactive returns a proxy that records which
// keys a running reaction reads and re-runs exactly the affected reactions
// when those keys are written through a proxy.
//
// # Core Types
//
// Proxies stand in for raw objects:
//
//	player := reactive.ObjectOf(reactive.NewObject("hp", 10, "name", "ada"))
//	hp := player.Get("hp")   // tracked read
//	player.Set("hp", 12)     // notifies readers of "hp"
//
// Reactions record their reads on every run:
//
//	r := reactive.Observe(func(op *reactive.Operation) {
//	    if op == nil {
//	        // first run
//	    }
//	    fmt.Println("hp:", player.Get("hp"))
//	})
//	reactive.Unobserve(r)
//
// Arrays report positional changes through ArrayOp:
//
//	items := reactive.ArrayOf(reactive.NewArray(1, 2, 3))
//	reactive.Observe(func(op *reactive.Operation) {
//	    _ = items.Len()
//	    if op != nil && op.Array != nil {
//	        fmt.Println(op.Array.Inserted, op.Array.InsertedStart)
//	    }
//	})
//	items.Push(4) // Inserted=[4] InsertedStart=3
//
// # Threading
//
// A Runtime is single-threaded. Reactions run synchronously inside the
// write that triggered them, and no locks are taken. Confine each Runtime,
// and every proxy it produced, to one goroutine.
package reactive
