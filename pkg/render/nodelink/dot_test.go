package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/scenegraph/pkg/scene"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

func demo() *scene.Hierarchy[string] {
	h := scene.New("root")
	_ = h.AddChild("child1", "root", transform.New(1, 0, 30))
	_ = h.AddChild("grandchild", "child1", transform.New(0.5, 0.5, 45))
	return h
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(demo(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, id := range []string{`"root"`, `"child1"`, `"grandchild"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	if !strings.Contains(dot, `"root" -> "child1"`) || !strings.Contains(dot, `"child1" -> "grandchild"`) {
		t.Errorf("ToDOT() output missing edges:\n%s", dot)
	}
	if strings.Count(dot, "->") != 2 {
		t.Errorf("ToDOT() should emit one edge per child, got:\n%s", dot)
	}
}

func TestToDOT_RootStyle(t *testing.T) {
	dot := ToDOT(demo(), Options{})
	if strings.Count(dot, "peripheries=2") != 1 {
		t.Errorf("root should be the only double-outlined node:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(demo(), Options{Detailed: true})

	if !strings.Contains(dot, "global: (1.5, 0.5) @ 75°") {
		t.Errorf("detailed output missing grandchild global:\n%s", dot)
	}
	if !strings.Contains(dot, "local: (0.5, 0.5) @ 45°") {
		t.Errorf("detailed output missing grandchild local:\n%s", dot)
	}
}

func TestToDOT_IntIDs(t *testing.T) {
	h := scene.New(1)
	_ = h.AddChild(2, 1, transform.Identity())
	if dot := ToDOT(h, Options{}); !strings.Contains(dot, `"1" -> "2"`) {
		t.Errorf("ToDOT() with int IDs:\n%s", dot)
	}
}

func TestToDOT_SiblingOrderStable(t *testing.T) {
	first := scene.New("root")
	_ = first.AddChild("b", "root", transform.New(0, 1, 0))
	_ = first.AddChild("a", "root", transform.New(1, 0, 0))

	second := scene.New("root")
	_ = second.AddChild("a", "root", transform.New(1, 0, 0))
	_ = second.AddChild("b", "root", transform.New(0, 1, 0))

	for _, detailed := range []bool{false, true} {
		d1 := ToDOT(first, Options{Detailed: detailed})
		d2 := ToDOT(second, Options{Detailed: detailed})
		if d1 != d2 {
			t.Errorf("ToDOT(detailed=%v) depends on insertion order:\n%s\nvs\n%s", detailed, d1, d2)
		}
		if strings.Index(d1, `"a" [`) > strings.Index(d1, `"b" [`) {
			t.Errorf("ToDOT(detailed=%v) lists b before a:\n%s", detailed, d1)
		}
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := ToDOT(demo(), Options{})
	out, err := Render(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatalf("Render(dot): %v", err)
	}
	if string(out) != dot {
		t.Error("DOT rendering should return the source unchanged")
	}
}

func TestRenderUnsupported(t *testing.T) {
	if _, err := Render(context.Background(), "digraph G {}", "pdf"); err == nil {
		t.Error("Render(pdf) should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(ToDOT(demo(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.50 200.25"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point units should be dropped: %s", out)
	}
}
