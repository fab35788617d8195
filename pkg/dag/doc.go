// Package dag provides the directed graph structure behind codescope's
// layered graph layout.
//
// # Overview
//
// Nodes are assigned to rows (ranks). Once a graph has been made acyclic and
// layered by the transform package, every edge connects consecutive rows,
// which is the shape Sugiyama-style crossing reduction works on.
//
// The graph remembers insertion order. Node listings, sources and per-row
// listings follow that order, which keeps layouts reproducible for a fixed
// input ordering.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "com.acme.Api"})
//	g.AddNode(dag.Node{ID: "com.acme.Repo"})
//	g.AddEdge(dag.Edge{From: "com.acme.Api", To: "com.acme.Repo"})
//
// # Node Kinds
//
//   - [NodeKindRegular]: a node from the projected graph
//   - [NodeKindVirtual]: a bend point inserted on an edge spanning several rows
//
// # Crossings
//
// [CountCrossings] and [CountLayerCrossings] count edge crossings between
// ordered rows; the ordering package uses them to keep only improving
// reorderings.
package dag
