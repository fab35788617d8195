package graphview

import "github.com/matzehuels/codescope/pkg/dataset"

// Neighborhood returns the closed neighborhood of id over edges: id itself,
// every target of an edge leaving id, and for the class kind every source of
// an edge entering id.
func Neighborhood(edges []Edge, kind dataset.Kind, id string) map[string]bool {
	set := map[string]bool{id: true}
	for _, e := range edges {
		if e.From == id {
			set[e.To] = true
		}
		if kind == dataset.KindClass && e.To == id {
			set[e.From] = true
		}
	}
	return set
}

// Highlight emphasizes id and its neighborhood within g.
//
// Emphasized nodes keep full opacity, the rest drop to [DimmedOpacity]; the
// selected node gets an [AccentColor] border of [SelectedBorderWidth]. An
// edge touching the selected node is stroked with the accent at
// [HighlightStrokeWidth]. An edge between two emphasized nodes stays fully
// opaque in its default color. Every other edge is dimmed.
//
// The neighborhood is computed over neighborhoodEdges, normally the edges
// of the unfiltered projection, so that a search does not shrink it.
// Passing nil uses g's own edges.
//
// An empty id clears the highlight. An id that is not a node of g leaves g
// unchanged and reports false.
func Highlight(g Graph, id string, neighborhoodEdges []Edge) (Graph, bool) {
	if id == "" {
		return ClearHighlight(g), true
	}
	if _, ok := g.Node(id); !ok {
		return g, false
	}
	if neighborhoodEdges == nil {
		neighborhoodEdges = g.Edges
	}
	emphasized := Neighborhood(neighborhoodEdges, g.Kind, id)

	out := g.clone()
	out.Selected = id
	for i := range out.Nodes {
		n := &out.Nodes[i]
		n.Emphasized = emphasized[n.ID]
		n.Selected = n.ID == id
		n.Style = defaultNodeStyle()
		if !n.Emphasized {
			n.Style.Opacity = DimmedOpacity
		}
		if n.Selected {
			n.Style.BorderColor = AccentColor
			n.Style.BorderWidth = SelectedBorderWidth
			n.Style.Glow = true
		}
	}
	for i := range out.Edges {
		e := &out.Edges[i]
		e.Style = defaultEdgeStyle(e.Color)
		switch {
		case e.From == id || e.To == id:
			e.Style.Stroke = AccentColor
			e.Style.StrokeWidth = HighlightStrokeWidth
		case emphasized[e.From] && emphasized[e.To]:
		default:
			e.Style.Opacity = DimmedOpacity
		}
	}
	return out, true
}

// ClearHighlight restores default colors and full opacity.
func ClearHighlight(g Graph) Graph {
	out := g.clone()
	out.Selected = ""
	for i := range out.Nodes {
		out.Nodes[i].Emphasized = false
		out.Nodes[i].Selected = false
		out.Nodes[i].Style = defaultNodeStyle()
	}
	for i := range out.Edges {
		out.Edges[i].Style = defaultEdgeStyle(out.Edges[i].Color)
	}
	return out
}

// EmphasizedIDs lists the emphasized node ids of g in node order.
func EmphasizedIDs(g Graph) []string {
	var ids []string
	for _, n := range g.Nodes {
		if n.Emphasized {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
