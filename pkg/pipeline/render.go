package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/codescope/pkg/graphview"
	"github.com/matzehuels/codescope/pkg/render/nodelink"
)

// Render produces one artifact per requested format.
func Render(ctx context.Context, view graphview.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(view, "", "  ")
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(view, nodelink.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
