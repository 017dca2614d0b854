package scene

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenegraph/pkg/dag"
	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/observability"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

// Link is the edge label between a parent and a child. It carries no data.
type Link = struct{}

// Store is the graph store a hierarchy is built on: nodes carry their local
// transform and edges run parent → child.
type Store[ID cmp.Ordered] interface {
	dag.Store[ID, transform.Transform, Link]
}

// Hierarchy is a single-rooted tree of local transforms.
//
// Nodes are added with AddChild and never removed or re-parented. Global
// transforms are not stored: every call to GlobalTransforms recomputes the
// whole tree from the root.
//
// The zero value is not usable - use New. A Hierarchy is not safe for
// concurrent use; callers must serialize AddChild and queries themselves.
type Hierarchy[ID cmp.Ordered] struct {
	store  Store[ID]
	root   ID
	parent map[ID]ID // child -> parent, root excluded
	logger *log.Logger
	hooks  observability.SceneHooks
}

// Option configures a Hierarchy at construction time.
type Option func(*options)

type options struct {
	logger *log.Logger
	hooks  observability.SceneHooks
}

// WithLogger sets the logger used for debug output. Nil means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHooks sets the observability hooks notified on mutation and queries.
func WithHooks(hooks observability.SceneHooks) Option {
	return func(o *options) {
		if hooks != nil {
			o.hooks = hooks
		}
	}
}

// New creates a hierarchy backed by a fresh [dag.Graph]. The root is
// inserted with the identity transform.
func New[ID cmp.Ordered](root ID, opts ...Option) *Hierarchy[ID] {
	return NewWithStore[ID](root, dag.New[ID, transform.Transform, Link](), opts...)
}

// NewWithStore creates a hierarchy on top of s, which must be empty. The
// hierarchy takes exclusive ownership of the store and inserts the root with
// the identity transform. A nil store falls back to a fresh [dag.Graph].
func NewWithStore[ID cmp.Ordered](root ID, s Store[ID], opts ...Option) *Hierarchy[ID] {
	if s == nil {
		s = dag.New[ID, transform.Transform, Link]()
	}
	o := options{logger: log.Default(), hooks: observability.NoopSceneHooks{}}
	for _, opt := range opts {
		opt(&o)
	}
	h := &Hierarchy[ID]{
		store:  s,
		root:   root,
		parent: make(map[ID]ID),
		logger: o.logger,
		hooks:  o.hooks,
	}
	if err := h.store.AddNode(root, transform.Identity()); err != nil {
		h.logger.Warn("root already present in store", "root", root, "err", err)
	}
	return h
}

// Root returns the root identifier.
func (h *Hierarchy[ID]) Root() ID { return h.root }

// Len returns the number of nodes in the tree, root included.
func (h *Hierarchy[ID]) Len() int { return len(h.parent) + 1 }

// Has reports whether id is the root or a successfully added child.
func (h *Hierarchy[ID]) Has(id ID) bool {
	if id == h.root {
		return true
	}
	_, ok := h.parent[id]
	return ok
}

// AddChild inserts child under parent with the given local transform.
//
// The parent is checked before anything is written, so a failed call leaves
// the hierarchy untouched. Errors carry the codes:
//   - MISSING_PARENT when parent is not in the tree
//   - DUPLICATE_NODE when child is already in the tree
func (h *Hierarchy[ID]) AddChild(child, parent ID, local transform.Transform) error {
	err := h.addChild(child, parent, local)
	h.hooks.OnChildAdded(h.Len(), err)
	if err != nil {
		h.logger.Debug("add child rejected", "child", child, "parent", parent, "err", err)
		return err
	}
	h.logger.Debug("added child", "child", child, "parent", parent, "local", local)
	return nil
}

func (h *Hierarchy[ID]) addChild(child, parent ID, local transform.Transform) error {
	if !h.Has(parent) {
		return scerrors.Wrap(scerrors.ErrCodeMissingParent, dag.ErrUnknownSourceNode,
			"cannot add %v: parent %v does not exist", child, parent)
	}
	if h.Has(child) {
		return scerrors.Wrap(scerrors.ErrCodeDuplicateNode, dag.ErrDuplicateNodeID,
			"node %v already exists", child)
	}
	if err := h.store.AddNode(child, local); err != nil {
		if errors.Is(err, dag.ErrDuplicateNodeID) {
			return scerrors.Wrap(scerrors.ErrCodeDuplicateNode, err, "node %v already exists", child)
		}
		return scerrors.Wrap(scerrors.ErrCodeInternal, err, "insert node %v", child)
	}
	if err := h.store.AddEdge(parent, child, Link{}); err != nil {
		// Unreachable from the tree, so it never shows up in query results.
		return scerrors.Wrap(scerrors.ErrCodeInternal, err, "link %v -> %v", parent, child)
	}
	h.parent[child] = parent
	return nil
}

// Local returns the local transform of id.
func (h *Hierarchy[ID]) Local(id ID) (transform.Transform, bool) {
	if !h.Has(id) {
		return transform.Transform{}, false
	}
	return h.store.Payload(id)
}

// Parent returns the parent of id. The root has no parent.
func (h *Hierarchy[ID]) Parent(id ID) (ID, bool) {
	p, ok := h.parent[id]
	return p, ok
}

// Children returns the children of id in ascending order.
func (h *Hierarchy[ID]) Children(id ID) []ID {
	out := h.store.Outgoing(id)
	if len(out) == 0 {
		return nil
	}
	ids := make([]ID, len(out))
	for i, e := range out {
		ids[i] = e.To
	}
	slices.Sort(ids)
	return ids
}

// Visit describes one node reached during a traversal.
type Visit[ID cmp.Ordered] struct {
	ID     ID
	Parent ID // zero value for the root
	Depth  int
	Local  transform.Transform
	Global transform.Transform
}

// Walk visits every node reachable from the root in depth-first pre-order,
// parents before children and siblings in ascending ID order. Returning
// false from fn stops the walk.
func (h *Hierarchy[ID]) Walk(fn func(Visit[ID]) bool) {
	h.traverse(fn)
}

// GlobalTransforms computes the global transform of every node reachable
// from the root. Each node's global transform is its local transform
// aggregated with its parent's global; the root is aggregated with the
// identity. The returned map is owned by the caller.
func (h *Hierarchy[ID]) GlobalTransforms() map[ID]transform.Transform {
	start := time.Now()
	h.hooks.OnComputeStart(h.Len())

	globals := make(map[ID]transform.Transform, h.Len())
	h.traverse(func(v Visit[ID]) bool {
		globals[v.ID] = v.Global
		return true
	})

	elapsed := time.Since(start)
	h.hooks.OnComputeComplete(len(globals), elapsed)
	h.logger.Debug("computed global transforms", "nodes", len(globals), "duration", elapsed)
	return globals
}

// GlobalTransform computes the global transform of a single node by
// summing local transforms along its parent chain.
func (h *Hierarchy[ID]) GlobalTransform(id ID) (transform.Transform, bool) {
	if !h.Has(id) {
		return transform.Transform{}, false
	}
	global := transform.Identity()
	for cur := id; ; {
		local, _ := h.store.Payload(cur)
		global = local.Aggregate(global)
		p, ok := h.parent[cur]
		if !ok {
			return global, true
		}
		cur = p
	}
}

type frame[ID cmp.Ordered] struct {
	id        ID
	parent    ID
	depth     int
	inherited transform.Transform
}

// traverse runs an explicit-stack pre-order walk from the root. Each frame
// carries the global transform inherited from its parent, so composition
// always happens parent before child. Nodes already visited are skipped,
// which keeps a corrupted store from looping forever.
func (h *Hierarchy[ID]) traverse(fn func(Visit[ID]) bool) {
	seen := make(map[ID]struct{}, h.Len())
	stack := []frame[ID]{{id: h.root, inherited: transform.Identity()}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[f.id]; ok {
			continue
		}
		local, ok := h.store.Payload(f.id)
		if !ok {
			if f.id != h.root {
				continue
			}
			local = transform.Identity()
		}
		seen[f.id] = struct{}{}

		global := local.Aggregate(f.inherited)
		if !fn(Visit[ID]{ID: f.id, Parent: f.parent, Depth: f.depth, Local: local, Global: global}) {
			return
		}

		// Pushed in descending order so siblings pop in ascending order.
		kids := h.Children(f.id)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame[ID]{id: kids[i], parent: f.id, depth: f.depth + 1, inherited: global})
		}
	}
}

// Validate checks the tree invariants: the store is acyclic, every node has
// one path from the root, and nothing unreachable sits in the store.
//
// Errors carry CYCLE or INVALID_SCENE.
func (h *Hierarchy[ID]) Validate() error {
	insp, inspectable := h.store.(dag.Inspector[ID])
	if inspectable {
		if err := insp.Validate(); err != nil {
			if errors.Is(err, dag.ErrGraphHasCycle) {
				return scerrors.Wrap(scerrors.ErrCodeCycle, err, "hierarchy rooted at %v", h.root)
			}
			return scerrors.Wrap(scerrors.ErrCodeInvalidScene, err, "hierarchy rooted at %v", h.root)
		}
	}

	visited := 0
	var err error
	h.traverse(func(v Visit[ID]) bool {
		visited++
		if v.ID == h.root {
			return true
		}
		if p, ok := h.parent[v.ID]; !ok || p != v.Parent {
			err = scerrors.New(scerrors.ErrCodeInvalidScene, "node %v reached through %v, recorded parent %v", v.ID, v.Parent, p)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if visited != h.Len() {
		return scerrors.New(scerrors.ErrCodeInvalidScene, "%d of %d nodes reachable from %v", visited, h.Len(), h.root)
	}
	if inspectable {
		if n := insp.NodeCount(); n != h.Len() {
			return scerrors.New(scerrors.ErrCodeInvalidScene, "store holds %d nodes, tree has %d", n, h.Len())
		}
		for _, id := range insp.NodeIDs() {
			if len(insp.Parents(id)) > 1 {
				return scerrors.New(scerrors.ErrCodeInvalidScene, "node %v has %d parents", id, len(insp.Parents(id)))
			}
		}
	}
	return nil
}
