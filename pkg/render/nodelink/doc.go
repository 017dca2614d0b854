// Package nodelink renders scene hierarchies as node-link diagrams.
//
// # Usage
//
// Convert a hierarchy to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(h, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: When true, node labels include the local and global transform
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no external Graphviz installation is required.
package nodelink
