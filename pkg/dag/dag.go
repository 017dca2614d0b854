package dag

import (
	"cmp"
	"maps"
	"slices"
)

// Graph is an adjacency-list store. Payloads live in a map keyed by ID and
// each node keeps its outgoing edges and incoming source IDs.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph[ID cmp.Ordered, P, L any] struct {
	nodes    map[ID]P
	edges    []Edge[ID, L]
	outgoing map[ID][]Edge[ID, L] // nodeID -> edges leaving it
	incoming map[ID][]ID          // nodeID -> source IDs
}

// New creates an empty adjacency-list graph.
func New[ID cmp.Ordered, P, L any]() *Graph[ID, P, L] {
	return &Graph[ID, P, L]{
		nodes:    make(map[ID]P),
		outgoing: make(map[ID][]Edge[ID, L]),
		incoming: make(map[ID][]ID),
	}
}

// AddNode adds a node with its payload.
// Returns ErrDuplicateNodeID if a node with the same ID already exists; the
// existing payload is left untouched.
func (g *Graph[ID, P, L]) AddNode(id ID, payload P) error {
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[id] = payload
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if from doesn't exist, or
// ErrUnknownTargetNode if to doesn't exist.
//
// AddEdge does not check for cycles or multiple parents - use Validate
// after building the graph.
func (g *Graph[ID, P, L]) AddEdge(from, to ID, label L) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrUnknownTargetNode
	}
	e := Edge[ID, L]{From: from, To: to, Label: label}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], e)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// Payload returns the payload of the node and true, or the zero value and
// false if the node is not found.
func (g *Graph[ID, P, L]) Payload(id ID) (P, bool) {
	p, ok := g.nodes[id]
	return p, ok
}

// Outgoing returns the edges leaving the node in insertion order.
// Returns nil if the node has no children or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph[ID, P, L]) Outgoing(id ID) []Edge[ID, L] { return g.outgoing[id] }

// Has reports whether a node with the given ID exists.
func (g *Graph[ID, P, L]) Has(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Children returns the target IDs of the node's outgoing edges.
func (g *Graph[ID, P, L]) Children(id ID) []ID { return targets(g.outgoing[id]) }

// Parents returns the IDs of nodes that have edges to this node.
// Returns nil if the node has no parents or doesn't exist.
func (g *Graph[ID, P, L]) Parents(id ID) []ID { return g.incoming[id] }

// NodeCount returns the number of nodes in the graph.
func (g *Graph[ID, P, L]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph[ID, P, L]) EdgeCount() int { return len(g.edges) }

// NodeIDs returns all node IDs in ascending order.
func (g *Graph[ID, P, L]) NodeIDs() []ID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph[ID, P, L]) Edges() []Edge[ID, L] { return slices.Clone(g.edges) }

// Sources returns the IDs of nodes with no incoming edges, sorted.
func (g *Graph[ID, P, L]) Sources() []ID {
	var sources []ID
	for _, id := range g.NodeIDs() {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Sinks returns the IDs of nodes with no outgoing edges, sorted.
func (g *Graph[ID, P, L]) Sinks() []ID {
	var sinks []ID
	for _, id := range g.NodeIDs() {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Validate checks that every edge connects existing nodes and that the graph
// is acyclic. Returns ErrInvalidEdgeEndpoint or ErrGraphHasCycle.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph[ID, P, L]) Validate() error {
	for _, e := range g.edges {
		if !g.Has(e.From) || !g.Has(e.To) {
			return ErrInvalidEdgeEndpoint
		}
	}
	return detectCycles(g.NodeIDs(), g.Children)
}

func targets[ID cmp.Ordered, L any](edges []Edge[ID, L]) []ID {
	if len(edges) == 0 {
		return nil
	}
	ids := make([]ID, len(edges))
	for i, e := range edges {
		ids[i] = e.To
	}
	return ids
}
