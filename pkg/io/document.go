package io

import (
	"maps"
	"slices"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/scene"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

// Document is the serialisable form of a scene hierarchy.
type Document struct {
	Root  string     `json:"root" toml:"root" bson:"root"`
	Nodes []NodeSpec `json:"nodes" toml:"nodes" bson:"nodes"`
}

// NodeSpec is one non-root node and its local transform.
type NodeSpec struct {
	ID       string  `json:"id" toml:"id" bson:"id"`
	Parent   string  `json:"parent" toml:"parent" bson:"parent"`
	X        float64 `json:"x" toml:"x" bson:"x"`
	Y        float64 `json:"y" toml:"y" bson:"y"`
	Rotation float64 `json:"rotation" toml:"rotation" bson:"rotation"`
}

// Local returns the node's local transform.
func (n NodeSpec) Local() transform.Transform { return transform.New(n.X, n.Y, n.Rotation) }

// Validate checks identifiers and uniqueness without building anything.
func (d Document) Validate() error {
	if err := scerrors.ValidateNodeID(d.Root); err != nil {
		return scerrors.Wrap(scerrors.ErrCodeInvalidScene, err, "root")
	}
	seen := map[string]bool{d.Root: true}
	for i, n := range d.Nodes {
		if err := scerrors.ValidateNodeID(n.ID); err != nil {
			return scerrors.Wrap(scerrors.ErrCodeInvalidScene, err, "node %d", i)
		}
		if err := scerrors.ValidateNodeID(n.Parent); err != nil {
			return scerrors.Wrap(scerrors.ErrCodeInvalidScene, err, "parent of node %s", n.ID)
		}
		if seen[n.ID] {
			return scerrors.New(scerrors.ErrCodeDuplicateNode, "node %s declared more than once", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// Build constructs a hierarchy from d.
//
// Nodes may appear in any order in the document: they are inserted
// breadth-first from the root, so parents always precede children. Nodes
// whose parent is never declared fail with MISSING_PARENT; nodes whose
// parent chain loops back on itself fail with CYCLE.
func Build(d Document, opts ...scene.Option) (*scene.Hierarchy[string], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	byParent := make(map[string][]NodeSpec)
	declared := make(map[string]bool, len(d.Nodes)+1)
	declared[d.Root] = true
	for _, n := range d.Nodes {
		byParent[n.Parent] = append(byParent[n.Parent], n)
		declared[n.ID] = true
	}

	h := scene.New(d.Root, opts...)
	queue := []string{d.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range byParent[id] {
			if err := h.AddChild(n.ID, id, n.Local()); err != nil {
				return nil, err
			}
			queue = append(queue, n.ID)
		}
	}

	if h.Len() == len(d.Nodes)+1 {
		return h, nil
	}
	for _, n := range d.Nodes {
		if h.Has(n.ID) {
			continue
		}
		if !declared[n.Parent] {
			return nil, scerrors.New(scerrors.ErrCodeMissingParent, "node %s: parent %s does not exist", n.ID, n.Parent)
		}
		return nil, scerrors.New(scerrors.ErrCodeCycle, "node %s is not reachable from %s: parent chain loops", n.ID, d.Root)
	}
	return h, nil
}

// FromHierarchy captures h as a document. Nodes are listed in depth-first
// pre-order with siblings sorted, so parents precede children and the same
// tree always yields the same document.
func FromHierarchy(h *scene.Hierarchy[string]) Document {
	doc := Document{Root: h.Root(), Nodes: make([]NodeSpec, 0, h.Len()-1)}
	h.Walk(func(v scene.Visit[string]) bool {
		if v.ID == h.Root() {
			return true
		}
		doc.Nodes = append(doc.Nodes, NodeSpec{
			ID:       v.ID,
			Parent:   v.Parent,
			X:        v.Local.Position.X,
			Y:        v.Local.Position.Y,
			Rotation: v.Local.Rotation,
		})
		return true
	})
	return doc
}

// GlobalEntry is one row of a computed global transform listing.
type GlobalEntry struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// SortedGlobals flattens a global transform map into entries sorted by ID.
func SortedGlobals(globals map[string]transform.Transform) []GlobalEntry {
	out := make([]GlobalEntry, 0, len(globals))
	for _, id := range slices.Sorted(maps.Keys(globals)) {
		g := globals[id]
		out = append(out, GlobalEntry{ID: id, X: g.Position.X, Y: g.Position.Y, Rotation: g.Rotation})
	}
	return out
}
