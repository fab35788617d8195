// Package transform prepares a projected graph for layered layout.
//
// # Overview
//
// Call and dependency graphs arrive with cycles and with edges between
// arbitrary depths. The layered layout needs an acyclic graph whose edges
// only join consecutive rows. The steps, in order:
//
//	removed := transform.BreakCycles(g) // drop DFS back-edges
//	transform.AssignLayers(g)           // longest-path ranking
//	transform.Subdivide(g)              // virtual nodes on long edges
//
// # Cycle Breaking
//
// [BreakCycles] removes back-edges found by a depth-first search started
// from sources in insertion order. Callers that still need to draw the
// removed edges keep their own copy of the edge list; only the working
// graph loses them.
//
// # Layer Assignment
//
// [AssignLayers] places each node one row below its deepest parent.
//
// # Edge Subdivision
//
// [Subdivide] inserts [dag.NodeKindVirtual] nodes so every edge spans a
// single row. Their positions become the edge's bend points.
package transform
