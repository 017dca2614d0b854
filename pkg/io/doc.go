// Package io reads and writes scene documents in JSON and TOML.
//
// # Overview
//
// A [Document] names the root and lists every other node with its parent and
// local transform. The root always carries the identity transform and is
// therefore not listed among the nodes.
//
// # JSON Format
//
//	{
//	  "root": "root",
//	  "nodes": [
//	    {"id": "child1", "parent": "root", "x": 1, "y": 0, "rotation": 30},
//	    {"id": "grandchild", "parent": "child1", "x": 0.5, "y": 0.5, "rotation": 45}
//	  ]
//	}
//
// # TOML Format
//
//	root = "root"
//
//	[[nodes]]
//	id = "child1"
//	parent = "root"
//	x = 1.0
//	y = 0.0
//	rotation = 30.0
//
// # Building
//
// Decoding never builds anything. Pass the document to [Build] to get a
// scene.Hierarchy; nodes may be listed in any order, and errors carry the
// MISSING_PARENT, DUPLICATE_NODE or CYCLE codes from the errors package.
// [FromHierarchy] goes the other way.
//
//	doc, err := io.ImportFile("robot.toml")
//	if err != nil {
//	    return err
//	}
//	h, err := io.Build(doc)
//
// # Global Transforms
//
// [WriteGlobals] emits computed global transforms as JSON sorted by node ID,
// and [SortedGlobals] gives the same rows for table output.
package io
