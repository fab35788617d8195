// Package graphview turns a dataset graph into a bounded, positioned and
// styled view.
//
// # Pipeline
//
//	g := graphview.Project(ds.Graph(kind), kind, ds) // filter, cap, style
//	g = graphview.Positioned(g, graphview.LR)        // layered layout
//	v := graphview.Search(g, "order")                // filter, keep positions
//	v, _ = graphview.Highlight(v, id, g.Edges)       // emphasize neighborhood
//
// [Project] keeps at most [MaxNodes] nodes and [MaxEdges] edges of one kind.
// [ComputeLayout] runs the dag, transform and ordering packages and assigns
// every node a [NodeWidth] x [NodeHeight] box. Searching and highlighting
// only restyle or filter; they never move a node.
//
// # Interactive State
//
// [State] holds the search term and highlight for one positioned graph.
// Selecting the highlighted node again clears it, and searching always
// clears it.
//
// # Memoization
//
// [Projector] caches positioned graphs per dataset revision, kind and
// direction, and can persist them to a [cache.Cache] keyed by content hash.
package graphview
