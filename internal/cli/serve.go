package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescope/internal/server"
	"github.com/matzehuels/codescope/pkg/graphview"
)

// serveCommand runs the HTTP API. The dataset is loaded once at startup; a
// failed load keeps the server up and answering 503.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve the code data over HTTP",
		Long: `Serve loads the code-data document once and exposes tables, details
and laid-out graphs as a JSON API, with SVG and DOT renderings of the graphs.

The source is a file path, an http(s) URL or a mongodb:// URI. When omitted,
data.source from the config file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			dir, err := graphview.ParseDirection(cfg.Graph.Direction)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				Direction:       dir,
			}
			if cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				opts.Registry = reg
			}

			srv := server.New(runner, c.Logger, opts)
			if m := srv.Metrics(); m != nil {
				m.Register()
			}

			src, err := cfg.Source(sourceArg(args))
			if err != nil {
				return err
			}
			// A load failure is served as 503, not returned.
			_ = srv.Load(ctx, src)

			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout and render cache")
	return cmd
}
