// Package scene implements hierarchical transform propagation over a
// single-rooted tree.
//
// # Overview
//
// A [Hierarchy] holds one local [transform.Transform] per node. A node's
// global transform is its local transform aggregated with the global
// transform of its parent, all the way up to the root, whose parent is the
// identity. Global transforms are never stored: [Hierarchy.GlobalTransforms]
// recomputes the whole tree on every call.
//
//	h := scene.New("root")
//	_ = h.AddChild("child1", "root", transform.New(1, 0, 30))
//	_ = h.AddChild("grandchild", "child1", transform.New(0.5, 0.5, 45))
//	globals := h.GlobalTransforms() // grandchild: (1.5, 0.5) @ 75°
//
// # Invariants
//
// The root is inserted first, with the identity transform. [Hierarchy.AddChild]
// checks the parent before writing anything, so every node in the store is
// reachable from the root through exactly one path, even after a rejected
// call. Duplicate IDs are rejected rather than overwritten. Nodes are never
// removed or re-parented.
//
// # Storage
//
// The hierarchy consumes its graph store only through [Store], so any
// [dag.Store] backing works. [New] uses [dag.Graph]; use [NewWithStore] to
// supply another, such as [dag.Arena].
//
// # Traversal
//
// Traversal uses an explicit stack of (node, inherited global) frames rather
// than recursion, so deep trees cannot exhaust the goroutine stack. Because
// aggregation is commutative, sibling order never changes the result.
//
// # Concurrency
//
// A Hierarchy performs no locking. Mutations and queries may be interleaved
// freely on one goroutine; callers sharing a Hierarchy across goroutines must
// provide their own mutual exclusion.
package scene
