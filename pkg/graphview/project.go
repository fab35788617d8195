package graphview

import "github.com/matzehuels/codescope/pkg/dataset"

// Metadata resolves per-entity flags for node styling. *dataset.Dataset
// implements it. Classes are keyed by id, methods by full name.
type Metadata interface {
	Class(id string) (*dataset.Class, bool)
	Method(fullName string) (*dataset.Method, bool)
}

// Project derives the bounded, styled node and edge set for one node kind.
//
// Nodes of other kinds are dropped, as are repeated ids. The first
// [MaxNodes] remaining nodes are kept in input order. Edges are kept when
// both endpoints survive, in input order, and capped at [MaxEdges] after
// that filter. Duplicate edges are kept.
//
// Methods are filled by usage (see [MethodFill]); a method missing from meta
// counts as not called. Classes always get [FillClass]. A nil meta is
// treated as an empty lookup.
//
// The result has no positions; see [ComputeLayout].
func Project(full dataset.Graph, kind dataset.Kind, meta Metadata) Graph {
	g := Graph{Kind: kind, Nodes: []Node{}, Edges: []Edge{}}

	kept := make(map[string]bool)
	for _, n := range full.Nodes {
		if len(g.Nodes) == MaxNodes {
			break
		}
		if n.Kind != kind || n.ID == "" || kept[n.ID] {
			continue
		}
		kept[n.ID] = true
		g.Nodes = append(g.Nodes, projectNode(n.ID, kind, meta))
	}

	for _, e := range full.Edges {
		if len(g.Edges) == MaxEdges {
			break
		}
		if !kept[e.From] || !kept[e.To] {
			continue
		}
		color := EdgeColor(e.From, e.To)
		g.Edges = append(g.Edges, Edge{
			ID:    edgeID(len(g.Edges)),
			From:  e.From,
			To:    e.To,
			Color: color,
			Style: defaultEdgeStyle(color),
		})
	}
	return g
}

func projectNode(id string, kind dataset.Kind, meta Metadata) Node {
	n := Node{
		ID:     id,
		Label:  Label(id),
		Kind:   kind,
		Width:  NodeWidth,
		Height: NodeHeight,
		Style:  defaultNodeStyle(),
	}

	if kind == dataset.KindClass {
		n.Fill = FillClass
		n.Called = true
		if meta != nil {
			if c, ok := meta.Class(id); ok {
				n.Unused, n.Framework, n.Test = c.Unused, c.Framework, c.Test
			}
		}
		return n
	}

	if meta != nil {
		if m, ok := meta.Method(id); ok {
			n.Called, n.Unused, n.Framework, n.Test = m.Called, m.Unused, m.Framework, m.Test
		}
	}
	n.Fill = MethodFill(n.Called, n.Unused, n.Framework)
	return n
}
