package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescope/pkg/cache"
	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
	"github.com/matzehuels/codescope/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// Positioned graphs are memoized by the Projector; artifacts go to Cache.
// A Runner is safe for concurrent use.
type Runner struct {
	Projector *graphview.Projector
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Projector: graphview.NewProjector(c, keyer, logger),
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Execute builds the view and renders every requested format.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	viewStart := time.Now()
	view, highlighted, err := r.View(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	result := &Result{
		View:        view,
		Highlighted: highlighted,
	}
	result.Stats.ViewTime = time.Since(viewStart)
	result.Stats.NodeCount = len(view.Nodes)
	result.Stats.EdgeCount = len(view.Edges)
	if data, err := json.Marshal(view); err == nil {
		result.ViewHash = cache.Hash(data)
	}

	r.Logger.Debug("built view",
		"kind", opts.Kind,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ViewTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, view, result.ViewHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// View returns the positioned graph for opts.Kind with the search and
// highlight applied. The boolean reports whether the highlight matched; an
// unknown highlight id leaves the view unhighlighted.
func (r *Runner) View(ctx context.Context, ds *dataset.Dataset, opts Options) (graphview.Graph, bool, error) {
	if err := opts.ValidateForView(); err != nil {
		return graphview.Graph{}, false, err
	}

	base, err := r.Projector.Graph(ctx, ds, opts.Kind, opts.Direction)
	if err != nil {
		return graphview.Graph{}, false, err
	}

	view := graphview.Search(base, opts.Search)
	if opts.Highlight == "" {
		return view, false, nil
	}
	hl, ok := graphview.Highlight(view, opts.Highlight, base.Edges)
	if !ok {
		r.Logger.Debug("highlight target not in view", "id", opts.Highlight)
		return view, false, nil
	}
	return hl, true, nil
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every format came from the cache. viewHash keys the cache; an empty hash
// disables it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, view graphview.Graph, viewHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	useCache := viewHash != "" && !opts.Refresh
	if useCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(viewHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, view, opts)
	if err != nil {
		return nil, false, err
	}

	if viewHash != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(viewHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
				continue
			}
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
