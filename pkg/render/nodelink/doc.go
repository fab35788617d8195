// Package nodelink renders graph views as node-link diagrams with Graphviz.
//
// # Usage
//
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] keeps the view's styling: node fills, the selected node's accent
// border, edge palette colors and the dimmed opacity of a highlight all
// become DOT attributes.
//
// The layout is the view's own. Nodes are pinned with pos="x,y!" at their
// computed centers and sized to the layout footprint, and edges that pass
// through bend points carry them as a pos spline. [RenderSVG] runs neato,
// which keeps pinned nodes where they are, so the SVG matches the JSON
// view. The DOT output also works with an external neato -n2.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process, so no system install is needed.
package nodelink
