package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/scene"
)

// Supported output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists every format [Render] accepts.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds local and global transforms to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a hierarchy to Graphviz DOT format. Nodes are emitted in
// depth-first pre-order, so the output is stable for a given hierarchy.
//
// The root is drawn with a double outline to set it apart.
func ToDOT[ID cmp.Ordered](h *scene.Hierarchy[ID], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	h.Walk(func(v scene.Visit[ID]) bool {
		id := fmt.Sprint(v.ID)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(id, v, opts.Detailed))}
		if v.Depth == 0 {
			attrs = append(attrs, "peripheries=2")
		} else {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", fmt.Sprint(v.Parent), id))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel[ID cmp.Ordered](id string, v scene.Visit[ID], detailed bool) string {
	if !detailed {
		return id
	}
	return fmt.Sprintf("%s\nlocal: %v\nglobal: %v", id, v.Local, v.Global)
}

// Render produces the diagram in the requested format. DOT output is the
// source itself; SVG and PNG go through Graphviz.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		svg, err := render(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(svg), nil
	case FormatPNG:
		return render(ctx, dot, graphviz.PNG)
	}
	return nil, scerrors.New(scerrors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return Render(context.Background(), dot, FormatSVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return Render(context.Background(), dot, FormatPNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
