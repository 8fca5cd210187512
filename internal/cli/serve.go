package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/observability"
	"github.com/matzehuels/lyphgraph/pkg/server"
	"github.com/matzehuels/lyphgraph/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assembly API over HTTP",
		Long: `Start the HTTP API used by model editors.

Models are kept in the store selected by the [store] section of the
configuration; results are cached like on the command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			models, err := store.Open(ctx, cfg.StoreConfig())
			if err != nil {
				return err
			}
			// ctx is cancelled by now, so close with a fresh one
			defer models.Close(context.WithoutCancel(ctx))

			scfg := server.Config{
				Addr:           cfg.Server.Addr,
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				RequestTimeout: cfg.Server.RequestTimeout.Duration,
				Assemble:       cfg.AssembleOptions(),
			}
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				p := observability.NewPrometheus(reg)
				observability.Install(p)
				scfg.Metrics = p.Handler()
			}

			c.Logger.Info("starting server", "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
			return server.New(scfg, runner, models, c.Logger).Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}
