package nodelink

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
)

func sampleView(t *testing.T) graphview.Graph {
	t.Helper()
	full := dataset.Graph{
		Nodes: []dataset.Node{
			{ID: "com.acme.Api.get", Kind: dataset.KindMethod},
			{ID: "com.acme.Repo.find", Kind: dataset.KindMethod},
			{ID: "com.acme.Repo.drop", Kind: dataset.KindMethod},
		},
		Edges: []dataset.Edge{
			{From: "com.acme.Api.get", To: "com.acme.Repo.find"},
		},
	}
	return graphview.Positioned(graphview.Project(full, dataset.KindMethod, nil), graphview.TB)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleView(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"com.acme.Api.get" [label="Api.get"`,
		`fillcolor="` + graphview.FillNotCalled + `"`,
		`"com.acme.Api.get" -> "com.acme.Repo.find" [id="edge-0"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTHighlight(t *testing.T) {
	view, ok := graphview.Highlight(sampleView(t), "com.acme.Api.get", nil)
	if !ok {
		t.Fatal("highlight failed")
	}
	dot := ToDOT(view, Options{})

	if !strings.Contains(dot, `color="`+graphview.AccentColor+`", fontcolor`) {
		t.Errorf("selected node lacks accent border:\n%s", dot)
	}
	if !strings.Contains(dot, `"com.acme.Repo.drop" [label="Repo.drop", tooltip="com.acme.Repo.drop", fillcolor="`+graphview.FillNotCalled+`40"`) {
		t.Errorf("unrelated node not dimmed:\n%s", dot)
	}
	if !strings.Contains(dot, `color="`+graphview.AccentColor+`", penwidth=3`) {
		t.Errorf("edge not accented:\n%s", dot)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sampleView(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="Api.get\ncom.acme.Api.get\nnot called"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

// cycleView is a.A → a.B → a.C → a.A laid out left to right.
func cycleView() graphview.Graph {
	full := dataset.Graph{
		Nodes: []dataset.Node{
			{ID: "a.A", Kind: dataset.KindClass},
			{ID: "a.B", Kind: dataset.KindClass},
			{ID: "a.C", Kind: dataset.KindClass},
		},
		Edges: []dataset.Edge{
			{From: "a.A", To: "a.B"},
			{From: "a.B", To: "a.C"},
			{From: "a.C", To: "a.A"},
		},
	}
	return graphview.Positioned(graphview.Project(full, dataset.KindClass, nil), graphview.LR)
}

func TestToDOTPinsLayout(t *testing.T) {
	view := cycleView()
	dot := ToDOT(view, Options{})

	if !strings.Contains(dot, "layout=neato;") {
		t.Errorf("DOT does not select neato:\n%s", dot)
	}
	for _, n := range view.Nodes {
		want := fmt.Sprintf("pos=%q", dotPoint(n.Center())+"!")
		if !strings.Contains(dot, want) {
			t.Errorf("node %s not pinned at %s:\n%s", n.ID, want, dot)
		}
	}
	if !strings.Contains(dot, "width=3.4722") || !strings.Contains(dot, "height=0.6944") {
		t.Errorf("node size does not match the layout footprint:\n%s", dot)
	}

	var bent *graphview.Edge
	for i := range view.Edges {
		if len(view.Edges[i].Points) > 0 {
			bent = &view.Edges[i]
		}
	}
	if bent == nil {
		t.Fatal("layout produced no bend points for the back edge")
	}
	spline := edgeSpline(view, *bent)
	if got := len(strings.Fields(spline)); got != 1+3*(len(bent.Points)+1) {
		t.Errorf("spline %q has %d points", spline, got)
	}
	if !strings.Contains(dot, fmt.Sprintf("pos=%q", spline)) {
		t.Errorf("bend points missing from %s:\n%s", bent.ID, dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(graphview.Graph{}, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("empty DOT = %s", dot)
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#f43f5e", 1, "#f43f5e"},
		{"#f43f5e", 0.25, "#f43f5e40"},
		{"#f43f5e", 0, "#f43f5e00"},
		{"white", 0.25, "white"},
	}
	for _, tt := range tests {
		if got := withAlpha(tt.color, tt.opacity); got != tt.want {
			t.Errorf("withAlpha(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if plain := []byte("<svg><g/></svg>"); string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox changed")
	}
}

// nodeCenters reads each node's label anchor from Graphviz SVG output.
func nodeCenters(t *testing.T, svg string) map[string][2]float64 {
	t.Helper()
	titleRe := regexp.MustCompile(`<title>([^<]+)</title>`)
	textRe := regexp.MustCompile(`<text text-anchor="middle" x="([-0-9.]+)" y="([-0-9.]+)"`)
	out := make(map[string][2]float64)
	for _, chunk := range strings.Split(svg, "<g id=") {
		if !strings.Contains(chunk, `class="node"`) {
			continue
		}
		title, text := titleRe.FindStringSubmatch(chunk), textRe.FindStringSubmatch(chunk)
		if title == nil || text == nil {
			t.Fatalf("unparsable node group: %.200s", chunk)
		}
		x, _ := strconv.ParseFloat(text[1], 64)
		y, _ := strconv.ParseFloat(text[2], 64)
		out[title[1]] = [2]float64{x, y}
	}
	return out
}

func TestRenderSVGFollowsLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering")
	}
	view := cycleView()
	svg, err := RenderSVG(context.Background(), ToDOT(view, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	got := nodeCenters(t, string(svg))
	if len(got) != len(view.Nodes) {
		t.Fatalf("found %d nodes in SVG, want %d", len(got), len(view.Nodes))
	}

	// Graphviz translates the drawing as a whole; offsets between nodes
	// must match the layout.
	ref := view.Nodes[0]
	for _, n := range view.Nodes[1:] {
		wantDX := (n.Center().X - ref.Center().X) * pointsPerUnit
		wantDY := (n.Center().Y - ref.Center().Y) * pointsPerUnit
		dx := got[n.ID][0] - got[ref.ID][0]
		dy := got[n.ID][1] - got[ref.ID][1]
		if math.Abs(dx-wantDX) > 1.5 || math.Abs(dy-wantDY) > 1.5 {
			t.Errorf("%s offset = (%.1f, %.1f), layout says (%.1f, %.1f)", n.ID, dx, dy, wantDX, wantDY)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleView(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Api.get") {
		t.Errorf("unexpected SVG: %.200s", svg)
	}
}
