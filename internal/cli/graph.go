package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
	"github.com/matzehuels/codescope/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output    string
	formats   string
	kind      string
	direction string
	search    string
	highlight string
	detailed  bool
	noCache   bool
	refresh   bool
}

// graphCommand renders the class dependency graph or the method call graph.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts
	cmd := &cobra.Command{
		Use:   "graph [source]",
		Short: "Render the class dependency graph or the method call graph",
		Long: `Graph projects the dependency graph for one node kind, lays it out and
writes it as JSON, Graphviz DOT or SVG.

At most 100 nodes and 200 edges are shown. --search keeps nodes whose id
contains the term; --highlight emphasizes a node and its neighborhood and
dims everything else.`,
		Example: `  codescope graph data.json -f svg -o classes.svg
  codescope graph data.json --kind method --highlight com.acme.OrderService.place -f dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, sourceArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several formats); stdout when empty")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "node kind: class or method (default from config)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "layout direction: LR or TB (default from config)")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "keep only nodes whose id contains this term")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "node id to highlight with its neighborhood")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and usage flags in DOT and SVG labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout and render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")

	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions([]string{"class", "method"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions([]string{"LR", "TB"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "dot", "svg"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// pipelineOptions resolves graph flags against the config defaults.
func (c *CLI) pipelineOptions(o graphOpts) (pipeline.Options, error) {
	cfg := c.Config()
	kindStr := o.kind
	if kindStr == "" {
		kindStr = cfg.Graph.Kind
	}
	kind, err := dataset.ParseKind(kindStr)
	if err != nil {
		return pipeline.Options{}, err
	}
	dirStr := o.direction
	if dirStr == "" {
		dirStr = cfg.Graph.Direction
	}
	dir, err := graphview.ParseDirection(dirStr)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Kind:      kind,
		Direction: dir,
		Search:    o.search,
		Highlight: o.highlight,
		Formats:   parseFormats(o.formats),
		Detailed:  o.detailed,
		Refresh:   o.refresh,
		Logger:    c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (c *CLI) runGraph(cmd *cobra.Command, location string, o graphOpts) error {
	ctx := cmd.Context()
	opts, err := c.pipelineOptions(o)
	if err != nil {
		return err
	}

	ds, err := c.loadDataset(ctx, location)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		return err
	}
	if o.highlight != "" && !result.Highlighted {
		c.Logger.Warn("highlight target not in view, ignored", "id", o.highlight)
	}
	prog.done("Rendered graph", "kind", opts.Kind, "cached", result.CacheInfo.RenderHit)

	if o.output == "" && len(opts.Formats) == 1 {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(o.output, string(opts.Kind), opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}
	printSuccess(c.Out, "Rendered %s graph", opts.Kind)
	printStats(c.Out, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(c.Out, paths[format])
	}
	return nil
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths maps each format to a file. A single format writes to output
// as given; several formats share output as a base name with the format as
// extension. With no output the base is "<kind>-graph".
func outputPaths(output, kind string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = kind + "-graph"
	}
	for _, ext := range []string{".json", ".dot", ".svg"} {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
