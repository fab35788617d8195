package graphview

import "strings"

// Projection caps. Truncation keeps a stable prefix of input order.
const (
	MaxNodes = 100
	MaxEdges = 200
)

// Node footprint and spacing, in layout units.
const (
	NodeWidth  = 250.0
	NodeHeight = 50.0
	RankSep    = 50.0
	NodeSep    = 50.0
	EdgeSep    = 10.0
)

// Node fills.
const (
	FillClass     = "#f8fafc"
	FillUnused    = "#fee2e2"
	FillNotCalled = "#fef3c7"
	FillFramework = "#e0f2fe"
	FillUsed      = "#dcfce7"
)

// Highlight styling.
const (
	AccentColor          = "#f43f5e"
	BorderColor          = "#cbd5e1"
	DimmedOpacity        = 0.25
	DefaultStrokeWidth   = 2
	HighlightStrokeWidth = 3
	DefaultBorderWidth   = 1
	SelectedBorderWidth  = 2
)

// EdgePalette holds the default edge colors. See [EdgeColor].
var EdgePalette = [5]string{"#60a5fa", "#a78bfa", "#f87171", "#34d399", "#fbbf24"}

// EdgeColor picks a palette color from the lengths of the endpoint ids.
// Unrelated edges often share a color; the choice only has to be stable.
func EdgeColor(from, to string) string {
	return EdgePalette[(len(from)+len(to))%len(EdgePalette)]
}

// Label shortens a fully-qualified id for display: the last segment when the
// id has at most two dot-separated parts, else "secondToLast.last".
//
//	Label("com.foo.Bar.baz") // "Bar.baz"
//	Label("foo.Bar")         // "Bar"
func Label(id string) string {
	parts := strings.Split(id, ".")
	n := len(parts)
	if n > 2 {
		return parts[n-2] + "." + parts[n-1]
	}
	return parts[n-1]
}

// MethodFill buckets a method by its usage flags. Precedence is unused,
// then not called, then framework.
func MethodFill(called, unused, framework bool) string {
	switch {
	case unused:
		return FillUnused
	case !called:
		return FillNotCalled
	case framework:
		return FillFramework
	default:
		return FillUsed
	}
}

// NodeStyle is the per-node rendering state.
type NodeStyle struct {
	Opacity     float64 `json:"opacity"`
	BorderColor string  `json:"borderColor"`
	BorderWidth int     `json:"borderWidth"`
	Glow        bool    `json:"glow,omitempty"`
}

// EdgeStyle is the per-edge rendering state.
type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth int     `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

func defaultNodeStyle() NodeStyle {
	return NodeStyle{Opacity: 1, BorderColor: BorderColor, BorderWidth: DefaultBorderWidth}
}

func defaultEdgeStyle(color string) EdgeStyle {
	return EdgeStyle{Stroke: color, StrokeWidth: DefaultStrokeWidth, Opacity: 1}
}
