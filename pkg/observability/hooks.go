// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the server registers
// Prometheus-backed implementations at startup and the CLI keeps the no-op
// defaults. Libraries never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetGraphHooks(metrics)
//	observability.SetCacheHooks(metrics)
//
// Libraries call hooks to emit events:
//
//	observability.Graph().OnLayoutStart(ctx, "class", 87)
//	// ... lay out ...
//	observability.Graph().OnLayoutComplete(ctx, "class", duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// DatasetHooks receives events from dataset loading.
type DatasetHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, duration time.Duration, err error)
}

// GraphHooks receives events from graph projection and layout.
type GraphHooks interface {
	// OnProject records a projection and the size of its result.
	OnProject(ctx context.Context, kind string, nodes, edges int)

	// Layout events. Memoized layouts emit neither.
	OnLayoutStart(ctx context.Context, kind string, nodeCount int)
	OnLayoutComplete(ctx context.Context, kind string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "memory",
// "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// The Noop types discard every event.
type NoopDatasetHooks struct{}

func (NoopDatasetHooks) OnLoadStart(context.Context, string)                          {}
func (NoopDatasetHooks) OnLoadComplete(context.Context, string, time.Duration, error) {}

type NoopGraphHooks struct{}

func (NoopGraphHooks) OnProject(context.Context, string, int, int)                    {}
func (NoopGraphHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopGraphHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// slot holds one registered hook set. Reads are lock-free since every
// instrumented call site goes through one.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.v.Store(&h) }

func (s *slot[T]) reset() { s.v.Store(nil) }

var (
	datasetSlot = slot[DatasetHooks]{noop: NoopDatasetHooks{}}
	graphSlot   = slot[GraphHooks]{noop: NoopGraphHooks{}}
	cacheSlot   = slot[CacheHooks]{noop: NoopCacheHooks{}}
)

// SetDatasetHooks, SetGraphHooks and SetCacheHooks replace the registered
// hooks. nil is ignored.
func SetDatasetHooks(h DatasetHooks) {
	if h != nil {
		datasetSlot.set(h)
	}
}

func SetGraphHooks(h GraphHooks) {
	if h != nil {
		graphSlot.set(h)
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

func Dataset() DatasetHooks { return datasetSlot.get() }
func Graph() GraphHooks     { return graphSlot.get() }
func Cache() CacheHooks     { return cacheSlot.get() }

// Reset restores the no-op hooks. Tests that register hooks call it in
// cleanup.
func Reset() {
	datasetSlot.reset()
	graphSlot.reset()
	cacheSlot.reset()
}
