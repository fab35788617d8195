// Package render groups codescope's output renderers.
//
// The [nodelink] subpackage turns a positioned graph view into Graphviz DOT
// and SVG:
//
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// JSON output is the view itself; see the graphview package.
//
// [nodelink]: github.com/matzehuels/codescope/pkg/render/nodelink
package render
