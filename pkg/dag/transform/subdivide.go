package transform

import (
	"fmt"

	"github.com/matzehuels/codescope/pkg/dag"
)

// MetaEdgeIndex is the edge metadata key carrying the caller's index for an
// edge. Subdivide copies it onto the virtual nodes it creates so callers can
// map bend points back to the edge they belong to.
const MetaEdgeIndex = "edge_index"

// Subdivide breaks every edge spanning more than one row into a chain of
// single-row edges joined by virtual nodes:
//
//	Before: Api (row 0) → Repo (row 3)
//	After:  Api → Api_v_1 → Api_v_2 → Repo
//
// Virtual nodes record the chain's source in MasterID and the edge's
// [MetaEdgeIndex] in EdgeIndex (-1 when the edge carries none). Parallel
// long edges each get their own chain. Run [AssignLayers] first.
//
// Subdivide returns the number of virtual nodes added.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	added := 0

	type longEdge struct{ from, to string }
	var toRemove []longEdge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		idx := edgeIndex(e)
		toRemove = append(toRemove, longEdge{e.From, e.To})
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addVirtual(g, gen, prevID, src.ID, row, idx)
			added++
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Meta: e.Meta}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.from, e.to)
	}
	return added
}

func edgeIndex(e dag.Edge) int {
	if idx, ok := e.Meta[MetaEdgeIndex].(int); ok {
		return idx
	}
	return -1
}

func addVirtual(g *dag.DAG, gen *idGen, from, master string, row, idx int) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:        id,
		Row:       row,
		Kind:      dag.NodeKindVirtual,
		MasterID:  master,
		EdgeIndex: idx,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_v_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
