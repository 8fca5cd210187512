// Package dag provides a small directed graph used to check that resource
// hierarchies of an assembled model are acyclic.
//
// # Overview
//
// Lyph models relate resources through hierarchies that must never loop: a
// lyph cannot be its own supertype, a node cannot be a clone of its clone and
// a layer cannot contain the lyph it belongs to. The assembler builds one
// [DAG] per hierarchy and asks it for cycles.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]. Nodes must have unique, non-empty IDs:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "vessel"})
//	g.AddNode(dag.Node{ID: "artery"})
//	g.AddEdge(dag.Edge{From: "artery", To: "vessel"})
//
// [DAG.Validate] returns [ErrGraphHasCycle] if the graph loops, and
// [DAG.Cycles] lists every back edge found by a depth-first search together
// with the path it closes, which is what diagnostics report.
//
// # Ordering
//
// Nodes, sources and cycles are returned in insertion order so that
// diagnostics are reproducible across runs. [DAG.TopoSort] orders the nodes
// so that every edge points forward.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata]
// maps. The assembler stores the class of the resource a node stands for.
// Metadata maps are never nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
