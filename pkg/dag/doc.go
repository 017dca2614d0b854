// Package dag provides generic directed-graph stores keyed by ordered IDs.
//
// # Overview
//
// A store holds nodes, each with an opaque payload, and directed edges, each
// with an opaque label. Higher layers (see the scene package) consume stores
// through the narrow [Store] interface only, so the backing representation
// can be swapped without touching them.
//
// Two backings are provided:
//
//   - [Graph]: adjacency lists held in maps keyed by ID
//   - [Arena]: nodes in a contiguous slice with an ID-to-index map
//
// # Basic Usage
//
//	g := dag.New[string, float64, struct{}]()
//	_ = g.AddNode("root", 0)
//	_ = g.AddNode("child", 1)
//	_ = g.AddEdge("root", "child", struct{}{})
//
// # Insertion Rules
//
// Both backings share the same rules: duplicate IDs are rejected with
// [ErrDuplicateNodeID] and never overwrite the existing payload, and edges
// whose endpoints are missing are rejected with [ErrUnknownSourceNode] or
// [ErrUnknownTargetNode]. Missing endpoints are never created implicitly.
//
// Cycles are not checked on insertion. Use Validate (part of [Inspector]) to
// detect them.
//
// # Concurrency
//
// Stores are not safe for concurrent use. Callers must synchronize access if
// multiple goroutines read or modify the same store.
package dag
