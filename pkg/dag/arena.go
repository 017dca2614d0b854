package dag

import (
	"cmp"
	"slices"
)

type slot[ID cmp.Ordered, P, L any] struct {
	id      ID
	payload P
	out     []Edge[ID, L]
	in      []ID
}

// Arena is a store that keeps nodes in a contiguous slice and resolves IDs
// through an index map. Slots are never freed, so indices stay stable for the
// lifetime of the arena.
//
// The zero value is not usable - use NewArena.
type Arena[ID cmp.Ordered, P, L any] struct {
	slots []slot[ID, P, L]
	index map[ID]int
	edges int
}

// NewArena creates an empty arena store.
func NewArena[ID cmp.Ordered, P, L any]() *Arena[ID, P, L] {
	return &Arena[ID, P, L]{index: make(map[ID]int)}
}

// AddNode appends a node slot. Returns ErrDuplicateNodeID if the ID is taken.
func (a *Arena[ID, P, L]) AddNode(id ID, payload P) error {
	if _, exists := a.index[id]; exists {
		return ErrDuplicateNodeID
	}
	a.index[id] = len(a.slots)
	a.slots = append(a.slots, slot[ID, P, L]{id: id, payload: payload})
	return nil
}

// AddEdge links two existing slots.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for missing endpoints.
func (a *Arena[ID, P, L]) AddEdge(from, to ID, label L) error {
	fi, ok := a.index[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	ti, ok := a.index[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	a.slots[fi].out = append(a.slots[fi].out, Edge[ID, L]{From: from, To: to, Label: label})
	a.slots[ti].in = append(a.slots[ti].in, from)
	a.edges++
	return nil
}

// Payload returns the payload stored in the node's slot.
func (a *Arena[ID, P, L]) Payload(id ID) (P, bool) {
	i, ok := a.index[id]
	if !ok {
		var zero P
		return zero, false
	}
	return a.slots[i].payload, true
}

// Outgoing returns the edges leaving the node, or nil.
func (a *Arena[ID, P, L]) Outgoing(id ID) []Edge[ID, L] {
	if i, ok := a.index[id]; ok {
		return a.slots[i].out
	}
	return nil
}

// Children returns the target IDs of the node's outgoing edges.
func (a *Arena[ID, P, L]) Children(id ID) []ID { return targets(a.Outgoing(id)) }

// Parents returns the source IDs of edges pointing at the node.
func (a *Arena[ID, P, L]) Parents(id ID) []ID {
	if i, ok := a.index[id]; ok {
		return a.slots[i].in
	}
	return nil
}

// NodeCount returns the number of occupied slots.
func (a *Arena[ID, P, L]) NodeCount() int { return len(a.slots) }

// EdgeCount returns the number of edges.
func (a *Arena[ID, P, L]) EdgeCount() int { return a.edges }

// NodeIDs returns all node IDs in ascending order.
func (a *Arena[ID, P, L]) NodeIDs() []ID {
	ids := make([]ID, len(a.slots))
	for i, s := range a.slots {
		ids[i] = s.id
	}
	slices.Sort(ids)
	return ids
}

// Validate checks edge endpoints and acyclicity, like [Graph.Validate].
func (a *Arena[ID, P, L]) Validate() error {
	for _, s := range a.slots {
		for _, e := range s.out {
			if _, ok := a.index[e.To]; !ok {
				return ErrInvalidEdgeEndpoint
			}
		}
	}
	return detectCycles(a.NodeIDs(), a.Children)
}
