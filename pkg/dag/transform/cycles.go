package transform

import "github.com/matzehuels/codescope/pkg/dag"

// BreakCycles removes back-edges so the graph becomes acyclic and returns
// the removed edges.
//
// A depth-first search with white/gray/black coloring starts from every
// source node in insertion order, then from any node still unvisited (nodes
// that only sit on cycles). An edge into a gray node closes a cycle and is
// removed. Self-loops are always back-edges. Parallel copies of a removed
// edge are removed with it and reported once per copy.
//
// The choice of removed edges is deterministic for a fixed node and edge
// insertion order, but is not a minimum feedback arc set.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
