package graphview

import (
	"math"
	"slices"

	"github.com/matzehuels/codescope/pkg/dag"
	"github.com/matzehuels/codescope/pkg/dag/ordering"
	"github.com/matzehuels/codescope/pkg/dag/transform"
)

// Layout is the result of [ComputeLayout].
type Layout struct {
	Direction Direction `json:"direction"`
	// Positions maps node id to the top-left corner of its box.
	Positions map[string]Point `json:"positions"`
	// Bends holds, per input edge, the bend points between source and
	// target in edge direction. Empty for edges between adjacent ranks.
	Bends     [][]Point `json:"bends"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Ranks     int       `json:"ranks"`
	Crossings int       `json:"crossings"`
	// Reversed counts the edges turned around to break cycles.
	Reversed int `json:"reversed"`
}

// ComputeLayout positions nodes with a Sugiyama-style layered layout.
//
//  1. Cycles are broken by reversing DFS back-edges; self-loops are ignored.
//  2. Nodes are ranked by longest path.
//  3. Edges spanning several ranks are split with virtual nodes.
//  4. Rows are reordered with the barycenter heuristic, kept only when the
//     crossing count drops.
//  5. Coordinates are assigned: ranks [RankSep] apart along the direction
//     axis, nodes [NodeSep] apart within a rank, rows centered.
//
// Every node gets a [NodeWidth] x [NodeHeight] box and no two boxes
// overlap. Edges whose endpoints are not in nodes are ignored, and get no
// bends. The result depends only on the input order, never on map
// iteration.
func ComputeLayout(nodes []Node, edges []Edge, dir Direction) Layout {
	if dir == "" {
		dir = DefaultDirection
	}
	out := Layout{
		Direction: dir,
		Positions: make(map[string]Point, len(nodes)),
		Bends:     make([][]Point, len(edges)),
	}
	if len(nodes) == 0 {
		return out
	}

	g := dag.New(nil)
	for _, n := range nodes {
		_ = g.AddNode(dag.Node{ID: n.ID})
	}
	for i, e := range edges {
		if e.From == e.To {
			continue
		}
		_ = g.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: dag.Metadata{transform.MetaEdgeIndex: i}})
	}

	reversed := reverseBackEdges(g, edges)
	out.Reversed = len(reversed)

	transform.AssignLayers(g)
	transform.Subdivide(g)

	orders := ordering.Barycentric{}.OrderRows(g)
	out.Crossings = dag.CountCrossings(g, orders)
	out.Ranks = len(orders)

	centers := assignCoordinates(g, orders, dir)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes() {
		c := centers[n.ID]
		w, h := footprint(n)
		minX, minY = min(minX, c.X-w/2), min(minY, c.Y-h/2)
		maxX, maxY = max(maxX, c.X+w/2), max(maxY, c.Y+h/2)
	}
	shift := func(p Point) Point { return Point{X: p.X - minX, Y: p.Y - minY} }
	out.Width, out.Height = maxX-minX, maxY-minY

	for _, n := range nodes {
		c, ok := centers[n.ID]
		if !ok {
			continue
		}
		out.Positions[n.ID] = shift(Point{X: c.X - NodeWidth/2, Y: c.Y - NodeHeight/2})
	}

	chains := make(map[int][]*dag.Node)
	for _, n := range g.Nodes() {
		if n.IsVirtual() && n.EdgeIndex >= 0 {
			chains[n.EdgeIndex] = append(chains[n.EdgeIndex], n)
		}
	}
	for i := range edges {
		chain := chains[i]
		if len(chain) == 0 {
			continue
		}
		slices.SortFunc(chain, func(a, b *dag.Node) int { return a.Row - b.Row })
		pts := make([]Point, len(chain))
		for j, v := range chain {
			pts[j] = shift(centers[v.ID])
		}
		if reversed[i] {
			slices.Reverse(pts)
		}
		out.Bends[i] = pts
	}
	return out
}

// reverseBackEdges removes the DFS back-edges and re-adds each affected
// input edge reversed, so it still constrains ranking. Returns the input
// edge indexes that were reversed.
func reverseBackEdges(g *dag.DAG, edges []Edge) map[int]bool {
	removed := transform.BreakCycles(g)
	if len(removed) == 0 {
		return nil
	}
	type pair struct{ from, to string }
	back := make(map[pair]bool, len(removed))
	for _, e := range removed {
		back[pair{e.From, e.To}] = true
	}

	reversed := make(map[int]bool)
	for i, e := range edges {
		if e.From == e.To || !back[pair{e.From, e.To}] {
			continue
		}
		if g.AddEdge(dag.Edge{From: e.To, To: e.From, Meta: dag.Metadata{transform.MetaEdgeIndex: i}}) == nil {
			reversed[i] = true
		}
	}
	return reversed
}

// footprint returns a node's box size. Virtual nodes have none.
func footprint(n *dag.Node) (w, h float64) {
	if n.IsVirtual() {
		return 0, 0
	}
	return NodeWidth, NodeHeight
}

// assignCoordinates returns node centers. Rank r sits on the direction axis
// at r*(extent+RankSep); within a rank nodes are packed along the cross axis
// with NodeSep between boxes (EdgeSep next to virtual nodes) and the row is
// centered on zero.
func assignCoordinates(g *dag.DAG, orders map[int][]string, dir Direction) map[string]Point {
	rankExtent, crossExtent := NodeWidth, NodeHeight
	if dir == TB {
		rankExtent, crossExtent = NodeHeight, NodeWidth
	}

	centers := make(map[string]Point, g.NodeCount())
	for _, r := range g.RowIDs() {
		row := orders[r]
		cross := make([]float64, len(row))
		pos := 0.0
		for i, id := range row {
			n, _ := g.Node(id)
			size := crossSize(n, crossExtent)
			if i > 0 {
				prev, _ := g.Node(row[i-1])
				sep := NodeSep
				if n.IsVirtual() || prev.IsVirtual() {
					sep = EdgeSep
				}
				pos += crossSize(prev, crossExtent)/2 + sep + size/2
			}
			cross[i] = pos
		}
		offset := 0.0
		if len(row) > 0 {
			offset = cross[len(row)-1] / 2
		}

		along := float64(r)*(rankExtent+RankSep) + rankExtent/2
		for i, id := range row {
			c := cross[i] - offset
			if dir == TB {
				centers[id] = Point{X: c, Y: along}
			} else {
				centers[id] = Point{X: along, Y: c}
			}
		}
	}
	return centers
}

func crossSize(n *dag.Node, extent float64) float64 {
	if n.IsVirtual() {
		return 0
	}
	return extent
}

// WithLayout returns a copy of g with positions and bends from l. The
// layout must have been computed for g's nodes and edges in the same order.
func (g Graph) WithLayout(l Layout) Graph {
	out := g.clone()
	out.Direction = l.Direction
	out.Width, out.Height = l.Width, l.Height
	for i := range out.Nodes {
		if p, ok := l.Positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	for i := range out.Edges {
		if i < len(l.Bends) {
			out.Edges[i].Points = l.Bends[i]
		}
	}
	return out
}

// Positioned lays out g and returns the positioned copy.
func Positioned(g Graph, dir Direction) Graph {
	return g.WithLayout(ComputeLayout(g.Nodes, g.Edges, dir))
}
