package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDatasetHooks{}
	d.OnLoadStart(ctx, "code-data.json")
	d.OnLoadComplete(ctx, "code-data.json", time.Second, errors.New("boom"))

	g := NoopGraphHooks{}
	g.OnProject(ctx, "class", 100, 200)
	g.OnLayoutStart(ctx, "method", 100)
	g.OnLayoutComplete(ctx, "method", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "memory")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Dataset().(NoopDatasetHooks); !ok {
		t.Error("Dataset() should return NoopDatasetHooks by default")
	}
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() should return NoopGraphHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customDataset := &testDatasetHooks{}
	SetDatasetHooks(customDataset)
	if Dataset() != customDataset {
		t.Error("SetDatasetHooks should set custom hooks")
	}

	customGraph := &testGraphHooks{}
	SetGraphHooks(customGraph)
	if Graph() != customGraph {
		t.Error("SetGraphHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Reset() should restore NoopGraphHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testGraphHooks{}
	SetGraphHooks(custom)
	SetGraphHooks(nil)

	if Graph() != custom {
		t.Error("SetGraphHooks(nil) should be ignored")
	}
}

type testDatasetHooks struct{ NoopDatasetHooks }
type testGraphHooks struct{ NoopGraphHooks }
type testCacheHooks struct{ NoopCacheHooks }
