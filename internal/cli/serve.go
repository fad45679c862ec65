package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/internal/metrics"
	"github.com/matzehuels/boardview/internal/server"
	"github.com/matzehuels/boardview/pkg/observability"
)

// serveCommand creates the serve command, which exposes views over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve interactive views of a module tree over HTTP",
		Long: `Serve interactive views of a module tree over HTTP.

Each client creates a view with POST /views and drives it with pan, zoom,
toggle and drag requests; every response carries the updated frame.
Snapshots of a view are available at /views/{id}/render.{svg,png,dot,json}
and Prometheus metrics at /metrics.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			res, err := c.loadTree(ctx, args[0], cfg)
			if err != nil {
				return err
			}

			var reg *metrics.Registry
			if !noMetrics {
				reg = metrics.NewRegistry()
				reg.Install()
				defer observability.Reset()
			}
			srv := server.New(res.Tree, cfg, c.Logger, reg)

			printSuccess("Serving %s", res.Root)
			printKeyValue("address", StyleLink.Render("http://"+displayAddr(addr)))
			printTreeSummary(res.Tree)
			printKeyValue("max views", fmt.Sprint(cfg.Server.MaxViews))
			printNewline()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not collect or serve metrics")

	return cmd
}

// displayAddr turns a listen address like ":8080" into a browsable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
