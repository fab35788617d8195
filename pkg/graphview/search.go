package graphview

import "strings"

// Search keeps the nodes of g whose id contains term, ignoring case, and
// the edges whose endpoints both survive. Positions are kept, so a search
// never needs a new layout. An empty term returns g unfiltered.
//
// Searching always clears the highlight.
func Search(g Graph, term string) Graph {
	out := ClearHighlight(g)
	out.Search = term
	if term == "" {
		return out
	}

	needle := strings.ToLower(term)
	nodes := out.Nodes[:0:0]
	keep := make(map[string]bool)
	for _, n := range out.Nodes {
		if strings.Contains(strings.ToLower(n.ID), needle) {
			nodes = append(nodes, n)
			keep[n.ID] = true
		}
	}
	edges := out.Edges[:0:0]
	for _, e := range out.Edges {
		if keep[e.From] && keep[e.To] {
			edges = append(edges, e)
		}
	}
	out.Nodes, out.Edges = nodes, edges
	return out
}
