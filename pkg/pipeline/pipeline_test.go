package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
	"github.com/matzehuels/codescope/pkg/graphview"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Kind != DefaultKind || o.Direction != graphview.DefaultDirection || len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("defaults = %+v", o)
	}
	if o.Logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad kind", Options{Kind: "package"}, errors.ErrCodeInvalidKind},
		{"bad direction", Options{Direction: "RL"}, errors.ErrCodeInvalidDirection},
		{"bad format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Search: "x", Highlight: "y"}
	if got := o.ArtifactKeyOpts("svg"); got.Format != "svg" || got.Search != "x" || got.Highlight != "y" {
		t.Errorf("ArtifactKeyOpts = %+v", got)
	}
	o.Detailed = true
	if got := o.ArtifactKeyOpts("svg"); got.Format == "svg" {
		t.Error("detailed artifacts share the plain key")
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.FileSource{Path: "../dataset/testdata/code-data.json"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestRunnerView(t *testing.T) {
	ds := sample(t)
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		opts        Options
		nodes       int
		highlighted bool
	}{
		{"classes", Options{Kind: dataset.KindClass}, 5, false},
		{"methods", Options{Kind: dataset.KindMethod}, 4, false},
		{"search", Options{Kind: dataset.KindClass, Search: "order"}, 3, false},
		{"highlight", Options{Kind: dataset.KindClass, Highlight: "com.acme.util.Money"}, 5, true},
		{"unknown highlight", Options{Kind: dataset.KindClass, Highlight: "nope"}, 5, false},
		{"highlight hidden by search", Options{Kind: dataset.KindClass, Search: "order", Highlight: "com.acme.util.Money"}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, ok, err := r.View(ctx, ds, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(view.Nodes) != tt.nodes || ok != tt.highlighted {
				t.Errorf("nodes = %d highlighted = %v, want %d %v", len(view.Nodes), ok, tt.nodes, tt.highlighted)
			}
			if !ok && view.Selected != "" {
				t.Errorf("Selected = %q", view.Selected)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	ds := sample(t)
	c := &memCache{data: make(map[string][]byte)}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Kind: dataset.KindMethod, Formats: []string{FormatJSON, FormatDOT}}

	first, err := r.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run hit the cache")
	}
	var decoded graphview.Graph
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(decoded.Nodes) != 4 || decoded.Kind != dataset.KindMethod {
		t.Errorf("decoded view = %d nodes kind %s", len(decoded.Nodes), decoded.Kind)
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %.40s", first.Artifacts[FormatDOT])
	}
	if first.ViewHash == "" || first.Stats.NodeCount != 4 || first.Stats.EdgeCount != 3 {
		t.Errorf("result = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit || second.ViewHash != first.ViewHash {
		t.Errorf("second run: hit=%v hash equal=%v", second.CacheInfo.RenderHit, second.ViewHash == first.ViewHash)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh served from cache")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), sample(t), Options{Kind: "bogus"})
	if !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderDOTKeepsLayout(t *testing.T) {
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
	view := graphview.Positioned(graphview.Project(full, dataset.KindClass, nil), graphview.LR)

	artifacts, err := Render(context.Background(), view, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dot := string(artifacts[FormatDOT])
	if !strings.Contains(dot, "layout=neato;") {
		t.Errorf("DOT not rendered with neato:\n%s", dot)
	}
	for _, n := range view.Nodes {
		c := n.Center()
		want := fmt.Sprintf(`pos="%g,%g!"`, c.X, -c.Y)
		if !strings.Contains(dot, want) {
			t.Errorf("%s: want %s in\n%s", n.ID, want, dot)
		}
	}
}
