// Package pkg holds the scenegraph libraries.
//
// # Overview
//
// A scene is a tree of 2D transforms. Each node stores a local transform
// relative to its parent; its global transform is the local one composed
// with every ancestor's, root first. The packages are layered:
//
//  1. [transform] - positions, rotations and their composition
//  2. [dag] - generic graph stores the engine is built on
//  3. [scene] - the hierarchy engine (AddChild, GlobalTransforms, Walk, Validate)
//  4. [io] - JSON and TOML scene documents
//  5. [render/nodelink] - Graphviz diagrams of a scene
//  6. [pipeline], [cache] - cached rendering
//  7. [storage], [server] - persisted scenes and the HTTP API
//
// # Data Flow
//
//	scene file (JSON/TOML)
//	         ↓
//	    [io] package (decode + build, parents before children)
//	         ↓
//	    [scene] package (hierarchy over a [dag] store)
//	         ↓
//	    global transforms / DOT / SVG / PNG
//
// # Quick Start
//
//	h := scene.New("root")
//	_ = h.AddChild("arm", "root", transform.New(1, 0, 30))
//	_ = h.AddChild("hand", "arm", transform.New(0.5, 0, 15))
//	fmt.Println(h.GlobalTransforms()["hand"]) // (1.5, 0) @ 45°
package pkg
