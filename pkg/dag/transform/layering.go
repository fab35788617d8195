package transform

import "github.com/matzehuels/codescope/pkg/dag"

// AssignLayers moves every node to the row one below its deepest parent,
// so sources sit in row 0 and each edge points strictly downward. Rows set
// earlier are discarded.
//
// The graph must be acyclic; call [BreakCycles] first. A parent reached
// again while its own depth is still being computed is read as row 0.
func AssignLayers(g *dag.DAG) {
	depth := make(map[string]int, g.NodeCount())
	active := make(map[string]bool)

	var rank func(id string) int
	rank = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		if active[id] {
			return 0
		}
		active[id] = true
		d := 0
		for _, p := range g.Parents(id) {
			d = max(d, rank(p)+1)
		}
		delete(active, id)
		depth[id] = d
		return d
	}

	for _, n := range g.Nodes() {
		rank(n.ID)
	}
	g.SetRows(depth)
}
