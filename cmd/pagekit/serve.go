package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/knowdesk/pagekit/internal/server"
)

func serveCmd(load loadFunc) *cobra.Command {
	var (
		addr      string
		devServer string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve host documents for the configured views",
		Long: `Serve host documents for the configured views.

Pages are loaded from pages.dir, or from pages.s3 when a bucket is
configured. Requests carrying X-Inertia receive the page descriptor as
JSON.

Examples:
  pagekit serve
  pagekit serve --addr=:8080
  pagekit serve --dev-server=http://localhost:5173`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if devServer != "" {
				cfg.Assets.DevServer = devServer
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.NewLogger(os.Stderr)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg, server.WithLogger(logger))
			if err != nil {
				return err
			}
			for _, v := range srv.Views() {
				logger.Debug("view", "path", v.Path, "component", v.Component, "route", v.Route)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from pagekit.json)")
	cmd.Flags().StringVar(&devServer, "dev-server", "", "Bundler dev-server origin")

	return cmd
}
