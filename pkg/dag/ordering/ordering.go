package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/codescope/pkg/dag"
)

// Orderer determines the sequence of nodes within each row of a layered
// graph. The result maps row index to node IDs in display order.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of sweeps [Barycentric] runs when Passes is
// zero or negative.
const DefaultPasses = 8

// Barycentric orders rows with the classic Sugiyama barycenter heuristic.
//
// Each row starts in insertion order. A down sweep sorts every row by the
// mean position of its parents in the row above; an up sweep sorts by the
// mean position of its children in the row below. Nodes without neighbors
// in the reference row keep their current position as their key, and ties
// keep their current relative order, so the result is deterministic for a
// fixed insertion order.
//
// After every sweep the total crossing count is measured with
// [dag.CountCrossings]. A sweep's ordering replaces the best one only when
// it strictly lowers that count, so the returned ordering never has more
// crossings than insertion order.
type Barycentric struct {
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestScore := dag.CountCrossings(g, best)
	if bestScore == 0 {
		return best
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	for pass := range passes {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByMean(orders[rows[i]], orders[rows[i-1]], g.Parents)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByMean(orders[rows[i]], orders[rows[i+1]], g.Children)
			}
		}

		if score := dag.CountCrossings(g, orders); score < bestScore {
			best, bestScore = cloneOrders(orders), score
			if bestScore == 0 {
				break
			}
		}
	}
	return best
}

// sortByMean reorders row by the mean position of each node's neighbors in
// ref.
func sortByMean(row, ref []string, neighbors func(string) []string) []string {
	refPos := dag.PosMap(ref)

	type keyed struct {
		id  string
		key float64
	}
	items := make([]keyed, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if p, ok := refPos[nb]; ok {
				sum += p
				n++
			}
		}
		key := float64(i)
		if n > 0 {
			key = float64(sum) / float64(n)
		}
		items[i] = keyed{id, key}
	}

	slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.key, b.key) })

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
