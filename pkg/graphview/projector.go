package graphview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/codescope/pkg/cache"
	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/observability"
)

// Projector memoizes positioned projections.
//
// In memory, graphs are keyed by (dataset revision, kind, direction); a new
// revision evicts every entry of older ones. Behind that, an optional
// persistent [cache.Cache] keyed by dataset content hash lets other
// processes reuse layouts. Concurrent requests for the same key compute
// once.
//
// Returned graphs are shared and must be treated as read-only; [Search] and
// [Highlight] already return copies.
type Projector struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu       sync.Mutex
	revision string
	memo     map[memoKey]Graph
	group    singleflight.Group
}

type memoKey struct {
	kind dataset.Kind
	dir  Direction
}

// NewProjector creates a projector. A nil cache disables persistence, a nil
// keyer uses [cache.NewDefaultKeyer], a nil logger discards.
func NewProjector(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Projector {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Projector{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		memo:   make(map[memoKey]Graph),
	}
}

// Graph returns the positioned projection of ds for kind.
func (p *Projector) Graph(ctx context.Context, ds *dataset.Dataset, kind dataset.Kind, dir Direction) (Graph, error) {
	if dir == "" {
		dir = DefaultDirection
	}
	key := memoKey{kind, dir}
	if g, ok := p.lookup(ds.Revision, key); ok {
		observability.Cache().OnCacheHit(ctx, "memory")
		return g, nil
	}
	observability.Cache().OnCacheMiss(ctx, "memory")

	sfKey := fmt.Sprintf("%s/%s/%s", ds.Revision, kind, dir)
	v, err, _ := p.group.Do(sfKey, func() (any, error) {
		g, err := p.build(ctx, ds, kind, dir)
		if err != nil {
			return Graph{}, err
		}
		p.store(ds.Revision, key, g)
		return g, nil
	})
	if err != nil {
		return Graph{}, err
	}
	return v.(Graph), nil
}

// Reset drops every memoized graph. The persistent cache is untouched.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revision = ""
	p.memo = make(map[memoKey]Graph)
}

// Close closes the persistent cache.
func (p *Projector) Close() error {
	return p.Cache.Close()
}

func (p *Projector) lookup(revision string, key memoKey) (Graph, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.revision != revision {
		return Graph{}, false
	}
	g, ok := p.memo[key]
	return g, ok
}

func (p *Projector) store(revision string, key memoKey, g Graph) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.revision != revision {
		p.revision = revision
		p.memo = make(map[memoKey]Graph)
	}
	p.memo[key] = g
}

func (p *Projector) build(ctx context.Context, ds *dataset.Dataset, kind dataset.Kind, dir Direction) (Graph, error) {
	cacheKey := p.Keyer.LayoutKey(ds.Hash, cache.LayoutKeyOpts{Kind: string(kind), Direction: string(dir)})
	if data, hit, err := p.Cache.Get(ctx, cacheKey); err == nil && hit {
		var g Graph
		if err := json.Unmarshal(data, &g); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			p.Logger.Debug("layout cache hit", "kind", kind, "direction", dir)
			return g, nil
		}
	} else if err != nil {
		p.Logger.Warn("layout cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Graph()
	projected := Project(ds.Graph(kind), kind, ds)
	hooks.OnProject(ctx, string(kind), len(projected.Nodes), len(projected.Edges))

	hooks.OnLayoutStart(ctx, string(kind), len(projected.Nodes))
	start := time.Now()
	layout := ComputeLayout(projected.Nodes, projected.Edges, dir)
	hooks.OnLayoutComplete(ctx, string(kind), time.Since(start), nil)

	g := projected.WithLayout(layout)
	p.Logger.Debug("computed layout",
		"kind", kind,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"ranks", layout.Ranks,
		"crossings", layout.Crossings,
		"reversed", layout.Reversed,
		"duration", time.Since(start))

	if data, err := json.Marshal(g); err == nil {
		if err := p.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			p.Logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return g, nil
}
