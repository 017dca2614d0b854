package dag

import (
	"cmp"
	"errors"
)

var (
	// ErrDuplicateNodeID is returned by AddNode when a node with the same ID
	// already exists. Stores never overwrite an existing payload.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by AddEdge when the From node does not
	// exist. Stores never create missing endpoints.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by AddEdge when the To node does not
	// exist in the store.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by Validate when an edge references a
	// node that doesn't exist. This indicates store corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by Validate when a directed cycle is
	// detected using depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed connection carrying an opaque label.
type Edge[ID cmp.Ordered, L any] struct {
	From  ID
	To    ID
	Label L
}

// Store is the narrow node/edge container consumed by higher layers.
// Nodes are keyed by ID and carry an opaque payload P; edges carry an
// opaque label L.
//
// Implementations must reject duplicate node IDs with [ErrDuplicateNodeID]
// and edges with a missing source with [ErrUnknownSourceNode].
type Store[ID cmp.Ordered, P, L any] interface {
	// AddNode inserts a node with the given payload.
	AddNode(id ID, payload P) error
	// AddEdge inserts a directed edge from → to.
	AddEdge(from, to ID, label L) error
	// Payload returns the payload stored for id, if any.
	Payload(id ID) (P, bool)
	// Outgoing returns the edges leaving id in insertion order, or nil
	// when none are recorded.
	Outgoing(id ID) []Edge[ID, L]
}

// Inspector is implemented by stores that can enumerate their contents.
// Both [Graph] and [Arena] implement it.
type Inspector[ID cmp.Ordered] interface {
	NodeCount() int
	EdgeCount() int
	NodeIDs() []ID
	Parents(id ID) []ID
	Validate() error
}

var (
	_ Store[string, int, struct{}] = (*Graph[string, int, struct{}])(nil)
	_ Store[string, int, struct{}] = (*Arena[string, int, struct{}])(nil)
	_ Inspector[string]            = (*Graph[string, int, struct{}])(nil)
	_ Inspector[string]            = (*Arena[string, int, struct{}])(nil)
)
