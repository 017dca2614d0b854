package scene

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenegraph/pkg/dag"
	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

func buildDemo(t *testing.T, h *Hierarchy[string]) {
	t.Helper()
	steps := []struct {
		child, parent string
		local         transform.Transform
	}{
		{"child1", "root", transform.New(1, 0, 30)},
		{"child2", "root", transform.New(0, 2, -15)},
		{"grandchild", "child1", transform.New(0.5, 0.5, 45)},
	}
	for _, s := range steps {
		if err := h.AddChild(s.child, s.parent, s.local); err != nil {
			t.Fatalf("AddChild(%s, %s): %v", s.child, s.parent, err)
		}
	}
}

func TestIdentityRoot(t *testing.T) {
	h := New("root")
	got := h.GlobalTransforms()

	if len(got) != 1 {
		t.Fatalf("GlobalTransforms() has %d entries, want 1", len(got))
	}
	if g, ok := got["root"]; !ok || !g.IsIdentity() {
		t.Errorf("root global = %v, %v; want identity", g, ok)
	}
	if l, _ := h.Local("root"); !l.IsIdentity() {
		t.Errorf("root local = %v, want identity", l)
	}
}

func TestGlobalTransformsScenario(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	want := map[string]transform.Transform{
		"root":       transform.New(0, 0, 0),
		"child1":     transform.New(1, 0, 30),
		"child2":     transform.New(0, 2, -15),
		"grandchild": transform.New(1.5, 0.5, 75),
	}
	got := h.GlobalTransforms()
	if !maps.Equal(got, want) {
		t.Errorf("GlobalTransforms() = %v, want %v", got, want)
	}
}

func TestAdditivity(t *testing.T) {
	h := New(0)
	tA := transform.New(2, -1, 10)
	tB := transform.New(-0.25, 4, 100)
	if err := h.AddChild(1, 0, tA); err != nil {
		t.Fatal(err)
	}
	if err := h.AddChild(2, 1, tB); err != nil {
		t.Fatal(err)
	}

	want := transform.New(2-0.25, -1+4, 110)
	if got := h.GlobalTransforms()[2]; got != want {
		t.Errorf("global(B) = %v, want %v", got, want)
	}
}

func TestSiblingOrderInvariance(t *testing.T) {
	a := transform.New(1, 1, 1)
	b := transform.New(-3, 2, 90)

	h1 := New("root")
	_ = h1.AddChild("a", "root", a)
	_ = h1.AddChild("b", "root", b)

	h2 := New("root")
	_ = h2.AddChild("b", "root", b)
	_ = h2.AddChild("a", "root", a)

	if g1, g2 := h1.GlobalTransforms(), h2.GlobalTransforms(); !maps.Equal(g1, g2) {
		t.Errorf("sibling order changed globals: %v vs %v", g1, g2)
	}
}

func TestAddChildMissingParent(t *testing.T) {
	h := New("root")
	buildDemo(t, h)
	before := h.GlobalTransforms()

	err := h.AddChild("orphan", "nonexistent", transform.New(9, 9, 9))
	if !scerrors.Is(err, scerrors.ErrCodeMissingParent) {
		t.Fatalf("AddChild error = %v, want MISSING_PARENT", err)
	}
	if !errors.Is(err, dag.ErrUnknownSourceNode) {
		t.Error("MISSING_PARENT should wrap dag.ErrUnknownSourceNode")
	}

	after := h.GlobalTransforms()
	if !maps.Equal(before, after) {
		t.Errorf("globals changed after rejected AddChild: %v -> %v", before, after)
	}
	if h.Has("orphan") {
		t.Error("rejected child must not be in the hierarchy")
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Validate() after rejected AddChild = %v", err)
	}

	// The orphan ID stays free: it can be added once the parent exists.
	if err := h.AddChild("orphan", "child2", transform.Identity()); err != nil {
		t.Errorf("AddChild after rejection: %v", err)
	}
}

func TestAddChildDuplicate(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	tests := []struct {
		name   string
		child  string
		parent string
	}{
		{"existing child", "child1", "child2"},
		{"root as child", "root", "child1"},
		{"self parent", "child2", "child2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.AddChild(tt.child, tt.parent, transform.New(5, 5, 5))
			if !scerrors.Is(err, scerrors.ErrCodeDuplicateNode) {
				t.Errorf("AddChild error = %v, want DUPLICATE_NODE", err)
			}
		})
	}

	if l, _ := h.Local("child1"); l != transform.New(1, 0, 30) {
		t.Errorf("duplicate insert overwrote local: %v", l)
	}
	if p, _ := h.Parent("child1"); p != "root" {
		t.Errorf("duplicate insert re-parented child1 under %q", p)
	}
	if h.Len() != 4 {
		t.Errorf("Len() = %d, want 4", h.Len())
	}
}

func TestInterleavedMutationAndQuery(t *testing.T) {
	h := New("root")
	for i, id := range []string{"a", "b", "c", "d"} {
		parent := "root"
		if i > 0 {
			parent = []string{"a", "b", "c"}[i-1]
		}
		if err := h.AddChild(id, parent, transform.New(1, 0, 10)); err != nil {
			t.Fatal(err)
		}
		got := h.GlobalTransforms()
		if len(got) != i+2 {
			t.Fatalf("after %d adds: %d globals, want %d", i+1, len(got), i+2)
		}
		want := transform.New(float64(i+1), 0, float64(10*(i+1)))
		if got[id] != want {
			t.Errorf("global(%s) = %v, want %v", id, got[id], want)
		}
	}
}

func TestGlobalTransformsIsFresh(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	first := h.GlobalTransforms()
	first["child1"] = transform.New(100, 100, 100)
	delete(first, "child2")

	second := h.GlobalTransforms()
	if second["child1"] != transform.New(1, 0, 30) {
		t.Error("mutating a returned map must not affect later computations")
	}
	if _, ok := second["child2"]; !ok {
		t.Error("child2 missing from second computation")
	}
}

func TestGlobalTransformSingle(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	all := h.GlobalTransforms()
	for id, want := range all {
		got, ok := h.GlobalTransform(id)
		if !ok || got != want {
			t.Errorf("GlobalTransform(%s) = %v, %v; want %v", id, got, ok, want)
		}
	}
	if _, ok := h.GlobalTransform("nope"); ok {
		t.Error("GlobalTransform(nope) should report false")
	}
}

func TestChildrenAndParent(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	if got := h.Children("root"); !slices.Equal(got, []string{"child1", "child2"}) {
		t.Errorf("Children(root) = %v", got)
	}
	if got := h.Children("grandchild"); got != nil {
		t.Errorf("Children(grandchild) = %v, want nil", got)
	}
	if _, ok := h.Parent("root"); ok {
		t.Error("root should have no parent")
	}
	if p, ok := h.Parent("grandchild"); !ok || p != "child1" {
		t.Errorf("Parent(grandchild) = %q, %v", p, ok)
	}
}

func TestWalkPreOrder(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	var order []string
	depth := map[string]int{}
	h.Walk(func(v Visit[string]) bool {
		order = append(order, v.ID)
		depth[v.ID] = v.Depth
		return true
	})

	want := []string{"root", "child1", "grandchild", "child2"}
	if !slices.Equal(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}
	if depth["grandchild"] != 2 || depth["root"] != 0 {
		t.Errorf("depths = %v", depth)
	}
}

func TestWalkSortsSiblings(t *testing.T) {
	h := New("root")
	for _, id := range []string{"c", "a", "b"} {
		if err := h.AddChild(id, "root", transform.Identity()); err != nil {
			t.Fatal(err)
		}
	}
	_ = h.AddChild("a2", "a", transform.Identity())
	_ = h.AddChild("a1", "a", transform.Identity())

	var order []string
	h.Walk(func(v Visit[string]) bool {
		order = append(order, v.ID)
		return true
	})
	want := []string{"root", "a", "a1", "a2", "b", "c"}
	if !slices.Equal(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}
}

func TestWalkStops(t *testing.T) {
	h := New("root")
	buildDemo(t, h)

	n := 0
	h.Walk(func(Visit[string]) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("Walk visited %d nodes after stop, want 2", n)
	}
}

func TestArenaBacking(t *testing.T) {
	graph := New("root")
	arena := NewWithStore[string]("root", dag.NewArena[string, transform.Transform, Link]())
	buildDemo(t, graph)
	buildDemo(t, arena)

	if g, a := graph.GlobalTransforms(), arena.GlobalTransforms(); !maps.Equal(g, a) {
		t.Errorf("arena globals %v differ from graph globals %v", a, g)
	}
	if err := arena.Validate(); err != nil {
		t.Errorf("arena Validate() = %v", err)
	}
}

// rootlessStore hides the root's payload to exercise the identity fallback.
type rootlessStore struct {
	*dag.Graph[string, transform.Transform, Link]
	root string
}

func (s rootlessStore) Payload(id string) (transform.Transform, bool) {
	if id == s.root {
		return transform.Transform{}, false
	}
	return s.Graph.Payload(id)
}

func TestMissingRootFallsBackToIdentity(t *testing.T) {
	store := rootlessStore{Graph: dag.New[string, transform.Transform, Link](), root: "root"}
	h := NewWithStore[string]("root", store)
	if err := h.AddChild("a", "root", transform.New(1, 2, 3)); err != nil {
		t.Fatal(err)
	}

	got := h.GlobalTransforms()
	if g, ok := got["root"]; !ok || !g.IsIdentity() {
		t.Errorf("root global = %v, %v; want identity", g, ok)
	}
	if got["a"] != transform.New(1, 2, 3) {
		t.Errorf("global(a) = %v", got["a"])
	}
}

// failingEdgeStore rejects every edge to exercise the internal error path.
type failingEdgeStore struct {
	*dag.Graph[string, transform.Transform, Link]
}

func (failingEdgeStore) AddEdge(string, string, Link) error { return errors.New("disk full") }

func TestEdgeFailureLeavesNoReachableOrphan(t *testing.T) {
	h := NewWithStore[string]("root", failingEdgeStore{dag.New[string, transform.Transform, Link]()})

	err := h.AddChild("a", "root", transform.New(1, 0, 0))
	if !scerrors.Is(err, scerrors.ErrCodeInternal) {
		t.Fatalf("AddChild error = %v, want INTERNAL_ERROR", err)
	}
	if h.Has("a") {
		t.Error("node with failed edge must not join the tree")
	}
	if got := h.GlobalTransforms(); len(got) != 1 {
		t.Errorf("GlobalTransforms() = %v, want root only", got)
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	store := dag.New[string, transform.Transform, Link]()
	h := NewWithStore[string]("root", store)
	buildDemo(t, h)

	// Corrupt the store behind the hierarchy's back.
	_ = store.AddEdge("grandchild", "root", Link{})

	if err := h.Validate(); !scerrors.Is(err, scerrors.ErrCodeCycle) {
		t.Errorf("Validate() = %v, want CYCLE", err)
	}

	// Traversal still terminates and visits each node once.
	if got := h.GlobalTransforms(); len(got) != 4 {
		t.Errorf("GlobalTransforms() on corrupted store has %d entries, want 4", len(got))
	}
}

func TestValidateDetectsStrayNode(t *testing.T) {
	store := dag.New[string, transform.Transform, Link]()
	h := NewWithStore[string]("root", store)
	buildDemo(t, h)

	_ = store.AddNode("stray", transform.Identity())

	if err := h.Validate(); !scerrors.Is(err, scerrors.ErrCodeInvalidScene) {
		t.Errorf("Validate() = %v, want INVALID_SCENE", err)
	}
	if _, ok := h.GlobalTransforms()["stray"]; ok {
		t.Error("unreachable node must not appear in globals")
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	h := New("root", WithLogger(logger))
	_ = h.AddChild("a", "root", transform.Identity())
	_ = h.GlobalTransforms()

	out := buf.String()
	for _, want := range []string{"added child", "computed global transforms"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type recordingHooks struct {
	added    []error
	started  int
	visited  int
	duration time.Duration
}

func (r *recordingHooks) OnChildAdded(_ int, err error) { r.added = append(r.added, err) }
func (r *recordingHooks) OnComputeStart(n int)          { r.started = n }
func (r *recordingHooks) OnComputeComplete(n int, d time.Duration) {
	r.visited = n
	r.duration = d
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	h := New("root", WithHooks(hooks))
	_ = h.AddChild("a", "root", transform.Identity())
	_ = h.AddChild("b", "missing", transform.Identity())
	_ = h.GlobalTransforms()

	if len(hooks.added) != 2 || hooks.added[0] != nil || hooks.added[1] == nil {
		t.Errorf("OnChildAdded errors = %v", hooks.added)
	}
	if hooks.started != 2 || hooks.visited != 2 {
		t.Errorf("compute hooks started=%d visited=%d, want 2/2", hooks.started, hooks.visited)
	}
}

func TestDeepChainDoesNotRecurse(t *testing.T) {
	const depth = 100000
	h := New(0)
	for i := 1; i <= depth; i++ {
		if err := h.AddChild(i, i-1, transform.New(1, 0, 0)); err != nil {
			t.Fatal(err)
		}
	}
	got := h.GlobalTransforms()
	if got[depth].Position.X != depth {
		t.Errorf("global(leaf).X = %v, want %d", got[depth].Position.X, depth)
	}
}
