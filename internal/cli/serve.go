package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/observability"
	"github.com/matzehuels/rfdraw/pkg/observability/promhooks"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	addr := envOr(envAddr, server.DefaultAddr)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exports over a local HTTP API",
		Long: `Serve starts an HTTP server with these routes:

  POST /v1/export   {"input": "model.xlsx", "output_dir": "out"}
  POST /v1/compile  {"input": "model.xlsx"}
  GET  /v1/locate
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runner, err := c.runner(logger)
			if err != nil {
				return err
			}
			locator, err := renderer.NewLocator()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := promhooks.New(reg)
			observability.SetPipelineHooks(hooks)
			observability.SetServerHooks(hooks)

			srv, err := server.New(server.Options{
				Runner:  runner,
				Locator: locator,
				Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			printInfo("Serving on http://%s", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "listen address [$"+envAddr+"]")
	return cmd
}
