package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/metrics"
	"github.com/renato0307/ktopo/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the topology over HTTP",
		Long: `Serve the topology over HTTP.

Routes:
  GET  /api/topology                  full transform result
  GET  /api/topology/model            layout model
  GET  /api/topology/nodes/:uid       one node (?format=yaml for its resource)
  GET  /api/topology/filters          display filters
  PUT  /api/topology/filters          replace display filters
  POST /api/topology/hull             group outline path
  POST /api/topology/connections      connect two nodes
  GET  /api/kubevirt/network-types    KubeVirt network types
  GET  /api/list/:name                proxied list of a resource kind
  GET  /metrics                       Prometheus metrics
  GET  /healthz                       liveness`,
		Annotations: map[string]string{annotationLogStderr: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.openSource(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer src.close()

			m := metrics.New()
			opts := server.Options{
				Pipeline: c.pipeline(src, m),
				Metrics:  m,
				DevMode:  dev,
			}
			if src.manager != nil {
				opts.Client = src.manager.GetRuntimeClient()
				opts.Listers, err = server.NewListers(src.manager.GetRESTConfig(), src.provider.Namespace(), c.cfg.Serve.Token, c.cfg.Kinds())
				if err != nil {
					return err
				}
			} else {
				logging.Warn("running with sample data; connections and resource listing are disabled")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(opts).Run(ctx, c.cfg.Serve.Addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Run gin in debug mode")
	return cmd
}
