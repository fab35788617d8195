package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/codescope/internal/config"
	"github.com/matzehuels/codescope/pkg/browse"
	"github.com/matzehuels/codescope/pkg/cache"
	"github.com/matzehuels/codescope/pkg/errors"
)

const samplePath = "../../pkg/dataset/testdata/code-data.json"

// isolate points config and cache lookups at temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir(config.CacheConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	dir, _ = cacheDir(config.CacheConfig{Dir: "/srv/cache"})
	if dir != "/srv/cache" {
		t.Errorf("configured dir ignored: %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, _ = cacheDir(config.CacheConfig{})
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	store, keyer, err := newCache(ctx, config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir(), Prefix: "prod:"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", store)
	}
	if k := keyer.LayoutKey("h", cache.LayoutKeyOpts{}); !strings.HasPrefix(k, "prod:") {
		t.Errorf("prefix not applied: %q", k)
	}

	for _, tc := range []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
	}{
		{"none backend", config.CacheConfig{Backend: config.CacheNone}, false},
		{"no-cache flag", config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir()}, true},
	} {
		store, _, err := newCache(ctx, tc.cfg, tc.noCache)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if _, ok := store.(cache.NullCache); !ok {
			t.Errorf("%s gave %T", tc.name, store)
		}
	}

	if _, _, err := newCache(ctx, config.CacheConfig{Backend: config.CacheRedis, RedisURL: "not a url"}, false); err == nil {
		t.Error("invalid redis url accepted")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "json"},
		{"svg", "svg"},
		{"SVG, dot,", "svg,dot"},
	}
	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.in), ","); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"single with output", "out/classes.svg", []string{"svg"}, map[string]string{"svg": "out/classes.svg"}},
		{"several with base", "out/graph.svg", []string{"svg", "dot"}, map[string]string{"svg": "out/graph.svg", "dot": "out/graph.dot"}},
		{"default base", "", []string{"json", "svg"}, map[string]string{"json": "class-graph.json", "svg": "class-graph.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "class", tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("path[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)

	opts, err := c.pipelineOptions(graphOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Kind != "class" || opts.Direction != "LR" || opts.Formats[0] != "json" {
		t.Errorf("defaults = %+v", opts)
	}

	if _, err := c.pipelineOptions(graphOpts{kind: "package"}); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("bad kind: %v", err)
	}
	if _, err := c.pipelineOptions(graphOpts{direction: "up"}); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("bad direction: %v", err)
	}
	if _, err := c.pipelineOptions(graphOpts{formats: "png"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: %v", err)
	}
}

func TestClassesCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "classes", samplePath, "--json", "--sort", "name", "--asc", "--search", "order")
	if err != nil {
		t.Fatal(err)
	}
	var rows []browse.ClassRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	var names []string
	for _, r := range rows {
		names = append(names, r.SimpleName)
	}
	if got := strings.Join(names, ","); got != "OrderController,OrderRepository,OrderService" {
		t.Errorf("rows = %s", got)
	}
}

func TestClassesTable(t *testing.T) {
	isolate(t)
	out, err := run(t, "classes", samplePath, "--unused")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "OldReport") || strings.Contains(out, "OrderService") {
		t.Errorf("unused table:\n%s", out)
	}
}

func TestMethodsShow(t *testing.T) {
	isolate(t)
	out, err := run(t, "methods", samplePath, "--show", "com.acme.service.OrderService.place", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var d browse.MethodDetail
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatal(err)
	}
	if d.ClassName != "OrderService" || len(d.CalledBy) != 1 || d.CalledBy[0] != "com.acme.api.OrderController.create" {
		t.Errorf("detail = %+v", d)
	}

	_, err = run(t, "methods", samplePath, "--show", "com.acme.Missing.run")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing method: %v", err)
	}
}

func TestInvalidSort(t *testing.T) {
	isolate(t)
	if _, err := run(t, "classes", samplePath, "--sort", "calls"); !errors.Is(err, errors.ErrCodeInvalidSort) {
		t.Errorf("err = %v", err)
	}
}

func TestSummaryCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "summary", samplePath, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var s browse.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatal(err)
	}
	if s.Classes != 5 || s.Methods != 5 || s.UnusedClasses != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "calls")
	out, err := run(t, "graph", samplePath, "--kind", "method", "-f", "json,dot", "-o", base, "--highlight", "com.acme.util.Money.add")
	if err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".json", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
	if !strings.Contains(out, "4 nodes") {
		t.Errorf("stats line missing:\n%s", out)
	}
}

func TestGraphStdout(t *testing.T) {
	isolate(t)
	out, err := run(t, "graph", samplePath, "-f", "dot", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("stdout = %.40q", out)
	}
}

func TestMissingSource(t *testing.T) {
	isolate(t)
	if _, err := run(t, "summary"); !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("no source: %v", err)
	}
	if _, err := run(t, "summary", "testdata/nope.json"); !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("missing file: %v", err)
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	cfg.Data.Source = samplePath
	if err := config.Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "summary", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"classes": 5`) {
		t.Errorf("summary from config source:\n%s", out)
	}

	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "summary"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("absent config: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}

	if _, err := run(t, "graph", samplePath, "-f", "dot", "-o", filepath.Join(t.TempDir(), "g.dot")); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared") || strings.Contains(out, "Cleared 0 ") {
		t.Errorf("cache clear = %q", out)
	}

	if out, err = run(t, "cache", "ping"); err != nil || !strings.Contains(out, "reachable") {
		t.Errorf("cache ping = %q, %v", out, err)
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	out, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" ") {
		t.Errorf("version = %q", out)
	}
}
