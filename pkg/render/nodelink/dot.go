package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the full id and usage flags to each node label. When
	// false, only the short label is shown.
	Detailed bool
}

// pointsPerUnit scales layout units to DOT points.
const pointsPerUnit = 1.0

// ToDOT converts a positioned view to Graphviz DOT source for neato. Every
// node is pinned at its layout position with its layout size, and edges
// carry their bend points, so Graphviz draws the computed layout instead of
// making its own. Fill colors, borders, edge colors and highlight opacity
// are carried over as attributes.
func ToDOT(g graphview.Graph, opts Options) string {
	rankdir := g.Direction
	if rankdir == "" {
		rankdir = graphview.DefaultDirection
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, fixedsize=true, pin=true];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(g, e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graphview.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	var flags []string
	if n.Unused {
		flags = append(flags, "unused")
	}
	if n.Framework {
		flags = append(flags, "framework")
	}
	if n.Test {
		flags = append(flags, "test")
	}
	if n.Kind == dataset.KindMethod && !n.Called {
		flags = append(flags, "not called")
	}
	if len(flags) == 0 {
		return n.Label + "\n" + n.ID
	}
	return n.Label + "\n" + n.ID + "\n" + strings.Join(flags, ", ")
}

func nodeAttrs(n graphview.Node, opts Options) []string {
	s := n.Style
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("tooltip=%q", n.ID),
		fmt.Sprintf("fillcolor=%q", withAlpha(n.Fill, s.Opacity)),
		fmt.Sprintf("color=%q", withAlpha(s.BorderColor, s.Opacity)),
		fmt.Sprintf("fontcolor=%q", withAlpha("#0f172a", s.Opacity)),
		fmt.Sprintf("penwidth=%d", s.BorderWidth),
	}
	if n.Selected {
		attrs = append(attrs, "style=\"rounded,filled,bold\"")
	}
	w, h := n.Width, n.Height
	if w == 0 || h == 0 {
		w, h = graphview.NodeWidth, graphview.NodeHeight
	}
	attrs = append(attrs,
		fmt.Sprintf("pos=\"%s!\"", dotPoint(n.Center())),
		fmt.Sprintf("width=%s", fmtFloat(w*pointsPerUnit/72)),
		fmt.Sprintf("height=%s", fmtFloat(h*pointsPerUnit/72)),
	)
	return attrs
}

func edgeAttrs(g graphview.Graph, e graphview.Edge) []string {
	s := e.Style
	attrs := []string{
		fmt.Sprintf("id=%q", e.ID),
		fmt.Sprintf("color=%q", withAlpha(s.Stroke, s.Opacity)),
		fmt.Sprintf("penwidth=%d", s.StrokeWidth),
	}
	if spline := edgeSpline(g, e); spline != "" {
		attrs = append(attrs, fmt.Sprintf("pos=%q", spline))
	}
	return attrs
}

// edgeSpline encodes the edge's route (source center, bend points, target
// center) as a Graphviz B-spline of straight segments: each segment a→b is
// the cubic with control points a and b. Edges without bends get none and
// are routed by neato between the pinned endpoints.
func edgeSpline(g graphview.Graph, e graphview.Edge) string {
	if len(e.Points) == 0 {
		return ""
	}
	from, ok1 := g.Node(e.From)
	to, ok2 := g.Node(e.To)
	if !ok1 || !ok2 {
		return ""
	}
	route := append([]graphview.Point{from.Center()}, e.Points...)
	route = append(route, to.Center())

	parts := []string{dotPoint(route[0])}
	for i := 1; i < len(route); i++ {
		parts = append(parts, dotPoint(route[i-1]), dotPoint(route[i]), dotPoint(route[i]))
	}
	return strings.Join(parts, " ")
}

// dotPoint converts a layout point to DOT coordinates, whose y axis points
// up.
func dotPoint(p graphview.Point) string {
	return fmtFloat(p.X*pointsPerUnit) + "," + fmtFloat(-p.Y*pointsPerUnit)
}

// withAlpha appends an alpha channel to a #rrggbb color when opacity is
// below 1.
func withAlpha(color string, opacity float64) string {
	if opacity >= 1 || len(color) != 7 || color[0] != '#' {
		return color
	}
	if opacity < 0 {
		opacity = 0
	}
	return fmt.Sprintf("%s%02x", color, int(opacity*255+0.5))
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with the embedded Graphviz, using
// neato so pinned positions from [ToDOT] are kept.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
