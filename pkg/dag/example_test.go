package dag_test

import (
	"fmt"

	"github.com/matzehuels/scenegraph/pkg/dag"
)

func ExampleGraph_basic() {
	// Build a chain: root → arm → hand
	g := dag.New[string, string, struct{}]()
	_ = g.AddNode("root", "origin")
	_ = g.AddNode("arm", "shoulder joint")
	_ = g.AddNode("hand", "wrist joint")
	_ = g.AddEdge("root", "arm", struct{}{})
	_ = g.AddEdge("arm", "hand", struct{}{})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of arm:", g.Children("arm"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of arm: [hand]
}

func ExampleGraph_AddEdge() {
	// Edges never create missing endpoints
	g := dag.New[string, int, struct{}]()
	_ = g.AddNode("root", 0)

	err := g.AddEdge("missing", "root", struct{}{})
	fmt.Println(err)
	// Output:
	// unknown source node
}

func ExampleArena() {
	// The arena backing satisfies the same Store contract
	var s dag.Store[int, string, struct{}] = dag.NewArena[int, string, struct{}]()
	_ = s.AddNode(1, "one")
	_ = s.AddNode(2, "two")
	_ = s.AddEdge(1, 2, struct{}{})

	p, _ := s.Payload(2)
	fmt.Println("Payload:", p)
	fmt.Println("Outgoing from 1:", len(s.Outgoing(1)))
	// Output:
	// Payload: two
	// Outgoing from 1: 1
}
