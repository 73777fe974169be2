package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/workcard/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card renderer over HTTP",
		Long: `Run an HTTP service that renders cards on request.

  POST /v1/cards         {"record": {...}, "variant": "anime"}
  POST /v1/cards/batch   {"records": [...]}
  GET  /v1/cards/{name}  the rendered PNG
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			r, d, err := c.newRenderer(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer d.close(ctx)

			srv := server.New(r, cfg.Server, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the asset cache")

	return cmd
}
