package main

import (
	"os/signal"
	"syscall"

	"github.com/brizzai/auto-jira/internal/config"
	"github.com/brizzai/auto-jira/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var transport, address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the selected routes as MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}
			if cfg.OpenAPIFile == "" {
				return errNoOpenAPIFile
			}
			if transport != "" {
				cfg.Server.Transport = config.ServerTransport(transport)
			}
			if address != "" {
				cfg.Server.Address = address
			}

			var srv *server.Server
			if err := populate(cfg, &srv); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "MCP transport (stdio|http)")
	cmd.Flags().StringVar(&address, "address", "", "Listen address for the http transport")
	return cmd
}
