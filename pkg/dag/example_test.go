package dag_test

import (
	"fmt"

	"github.com/matzehuels/lyphgraph/pkg/dag"
)

func ExampleDAG_basic() {
	// A supertype hierarchy: artery → vessel → tube
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "artery"})
	_ = g.AddNode(dag.Node{ID: "vessel"})
	_ = g.AddNode(dag.Node{ID: "tube"})
	_ = g.AddEdge(dag.Edge{From: "artery", To: "vessel"})
	_ = g.AddEdge(dag.Edge{From: "vessel", To: "tube"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Valid: true
}

func ExampleDAG_Cycles() {
	// A lyph that ends up as a layer of its own layer
	g := dag.New(nil)
	g.EnsureNode("wall")
	g.EnsureNode("lumen")
	_ = g.AddEdge(dag.Edge{From: "wall", To: "lumen"})
	_ = g.AddEdge(dag.Edge{From: "lumen", To: "wall"})

	for _, c := range g.Cycles() {
		fmt.Println(c.Path)
	}
	// Output:
	// [wall lumen wall]
}

func ExampleDAG_TopoSort() {
	g := dag.New(nil)
	for _, id := range []string{"capillary", "vessel", "artery"} {
		g.EnsureNode(id)
	}
	_ = g.AddEdge(dag.Edge{From: "vessel", To: "capillary"})
	_ = g.AddEdge(dag.Edge{From: "artery", To: "vessel"})

	order, _ := g.TopoSort()
	fmt.Println(order)
	// Output:
	// [artery vessel capillary]
}
