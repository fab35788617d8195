// Package pipeline turns a loaded dataset into a graph view and rendered
// artifacts.
//
// This package implements the project → layout → search → highlight →
// render sequence that both the CLI and the HTTP API use, so the two entry
// points filter, style and cache identically.
//
// # Stages
//
//  1. View: project the dataset graph for one node kind and lay it out
//     (memoized per dataset revision, persisted per content hash)
//  2. Filter: apply the search term and highlight, which never re-layout
//  3. Render: produce JSON, DOT or SVG, cached per view content
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    Kind:    dataset.KindClass,
//	    Search:  "order",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescope/pkg/cache"
	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
	"github.com/matzehuels/codescope/pkg/graphview"
)

// DefaultKind is the node kind shown when none is requested.
const DefaultKind = dataset.KindClass

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Options configures one pipeline run.
type Options struct {
	Kind      dataset.Kind        `json:"kind"`
	Direction graphview.Direction `json:"direction,omitempty"`
	Search    string              `json:"search,omitempty"`
	Highlight string              `json:"highlight,omitempty"`

	Formats []string `json:"formats,omitempty"`
	// Detailed adds ids and usage flags to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty"`
	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// View is the filtered and highlighted graph.
	View graphview.Graph

	// ViewHash is the content hash of View.
	ViewHash string

	// Highlighted reports whether the requested highlight matched a node of
	// the view. An unmatched highlight is ignored.
	Highlighted bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ViewTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForView(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForView checks the options needed to build a view.
func (o *Options) ValidateForView() error {
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	kind, err := dataset.ParseKind(string(o.Kind))
	if err != nil {
		return err
	}
	o.Kind = kind

	dir, err := graphview.ParseDirection(string(o.Direction))
	if err != nil {
		return err
	}
	o.Direction = dir

	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	f := format
	if o.Detailed {
		f += "+detailed"
	}
	return cache.ArtifactKeyOpts{
		Format:    f,
		Search:    o.Search,
		Highlight: o.Highlight,
	}
}

func (o Options) String() string {
	return fmt.Sprintf("kind=%s direction=%s search=%q highlight=%q", o.Kind, o.Direction, o.Search, o.Highlight)
}
