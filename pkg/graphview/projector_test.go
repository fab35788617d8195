package graphview

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/codescope/pkg/dataset"
)

type memCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	gets, sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
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

func testDataset(raw string) *dataset.Dataset {
	data := &dataset.CodeData{
		Classes: []dataset.Class{
			{ID: "com.acme.Api", DependsOn: []dataset.Dependency{{Target: "com.acme.Repo"}}},
			{ID: "com.acme.Repo"},
		},
		CallGraph: methodGraph("com.acme.Api.get->com.acme.Repo.find"),
	}
	return dataset.New(data, []byte(raw), "test")
}

func TestProjectorMemoizes(t *testing.T) {
	c := newMemCache()
	p := NewProjector(c, nil, nil)
	ctx := context.Background()
	ds := testDataset(`{"v":1}`)

	first, err := p.Graph(ctx, ds, dataset.KindClass, LR)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Graph(ctx, ds, dataset.KindClass, LR); err != nil {
		t.Fatal(err)
	}
	if c.gets != 1 || c.sets != 1 {
		t.Errorf("second call reached the cache: gets=%d sets=%d", c.gets, c.sets)
	}
	if len(first.Nodes) != 2 || len(first.Edges) != 1 || first.Kind != dataset.KindClass {
		t.Errorf("class graph = %+v", first)
	}

	if _, err := p.Graph(ctx, ds, dataset.KindMethod, TB); err != nil {
		t.Fatal(err)
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want a second entry for method/TB", c.sets)
	}
}

func TestProjectorNewRevisionUsesPersistentCache(t *testing.T) {
	c := newMemCache()
	ctx := context.Background()

	computed, err := NewProjector(c, nil, nil).Graph(ctx, testDataset(`{"v":1}`), dataset.KindMethod, LR)
	if err != nil {
		t.Fatal(err)
	}

	// A reload of the same bytes has a new revision but the same hash.
	p := NewProjector(c, nil, nil)
	cached, err := p.Graph(ctx, testDataset(`{"v":1}`), dataset.KindMethod, LR)
	if err != nil {
		t.Fatal(err)
	}
	if c.sets != 1 {
		t.Errorf("sets = %d, want the layout reused", c.sets)
	}
	if !reflect.DeepEqual(computed, cached) {
		t.Errorf("cached graph differs:\n%+v\n%+v", computed, cached)
	}

	if _, err := p.Graph(ctx, testDataset(`{"v":2}`), dataset.KindMethod, LR); err != nil {
		t.Fatal(err)
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want a fresh layout for new content", c.sets)
	}
}

func TestProjectorEvictsOldRevisions(t *testing.T) {
	p := NewProjector(nil, nil, nil)
	ctx := context.Background()
	old := testDataset("a")
	if _, err := p.Graph(ctx, old, dataset.KindClass, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.lookup(old.Revision, memoKey{dataset.KindClass, LR}); !ok {
		t.Fatal("graph not memoized under the default direction")
	}

	next := testDataset("b")
	if _, err := p.Graph(ctx, next, dataset.KindMethod, LR); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.lookup(old.Revision, memoKey{dataset.KindClass, LR}); ok {
		t.Error("old revision still memoized")
	}

	p.Reset()
	if _, ok := p.lookup(next.Revision, memoKey{dataset.KindMethod, LR}); ok {
		t.Error("Reset kept entries")
	}
}

func TestProjectorConcurrent(t *testing.T) {
	c := newMemCache()
	p := NewProjector(c, nil, nil)
	ds := testDataset("x")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Graph(context.Background(), ds, dataset.KindClass, LR); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if g, ok := p.lookup(ds.Revision, memoKey{dataset.KindClass, LR}); !ok || len(g.Nodes) != 2 {
		t.Errorf("memo = %+v, %v", g, ok)
	}
}
