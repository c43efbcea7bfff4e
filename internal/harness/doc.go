// Package harness replays scripted mutations against a data model and
// checks which reactions re-run.
//
// A scenario is a YAML document:
//
//	name: bag-refresh
//	model:
//	  player: {name: ada, bag: [sword]}
//	reactions:
//	  - name: title
//	    reads: [player.name]
//	  - name: bag
//	    reads: [player.bag.*]
//	steps:
//	  - op: push
//	    path: player.bag
//	    values: [shield]
//	    expect: [bag]
//	  - op: set
//	    path: player
//	    key: name
//	    value: grace
//	    expect: [title]
//
// Each run gets its own Runtime and a run ID, so traces from concurrent
// runs can be told apart in logs.
package harness
