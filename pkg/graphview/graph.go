package graphview

import (
	"fmt"
	"strings"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
)

// Direction is the layout's rank axis.
type Direction string

const (
	// LR ranks left to right.
	LR Direction = "LR"
	// TB ranks top to bottom.
	TB Direction = "TB"
)

// DefaultDirection is used when none is given.
const DefaultDirection = LR

// ParseDirection parses "LR" or "TB" case-insensitively. Empty means
// [DefaultDirection].
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return DefaultDirection, nil
	case LR:
		return LR, nil
	case TB:
		return TB, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (must be LR or TB)", s)
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a renderable vertex. Position is the top-left corner of its box.
// Called is only meaningful for methods.
type Node struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Kind      dataset.Kind `json:"kind"`
	Fill      string       `json:"fill"`
	Unused    bool         `json:"unused"`
	Framework bool         `json:"framework"`
	Test      bool         `json:"test"`
	Called    bool         `json:"called"`

	Position Point   `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`

	Style      NodeStyle `json:"style"`
	Emphasized bool      `json:"emphasized,omitempty"`
	Selected   bool      `json:"selected,omitempty"`
}

// Center returns the center of the node's box.
func (n Node) Center() Point {
	return Point{X: n.Position.X + n.Width/2, Y: n.Position.Y + n.Height/2}
}

// Edge is a renderable directed edge. ID is assigned at projection time and
// survives search filtering. Color is the default stroke; Style carries the
// current one.
type Edge struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Color  string    `json:"color"`
	Points []Point   `json:"points,omitempty"`
	Style  EdgeStyle `json:"style"`
}

// Graph is a projected view: nodes and edges with display metadata, and
// after layout, positions. Width and Height bound every node box.
type Graph struct {
	Kind      dataset.Kind `json:"kind"`
	Direction Direction    `json:"direction,omitempty"`
	Nodes     []Node       `json:"nodes"`
	Edges     []Edge       `json:"edges"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`

	// Search is the term the view was filtered by, if any.
	Search string `json:"search,omitempty"`
	// Selected is the highlighted node id, if any.
	Selected string `json:"selected,omitempty"`
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func (g Graph) nodeSet() map[string]bool {
	set := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		set[n.ID] = true
	}
	return set
}

func (g Graph) clone() Graph {
	out := g
	out.Nodes = make([]Node, len(g.Nodes))
	copy(out.Nodes, g.Nodes)
	out.Edges = make([]Edge, len(g.Edges))
	copy(out.Edges, g.Edges)
	return out
}

func edgeID(i int) string { return fmt.Sprintf("edge-%d", i) }
