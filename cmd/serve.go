package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"cuticulome/internal/metrics"
	"cuticulome/internal/relay"
	"cuticulome/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		if cfg.AppEnv != "local" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := server.New(server.Options{
			Snapshot:       a.snapshot,
			Packager:       a.packager,
			Relay:          relay.New(cfg.Relay, logger),
			Publications:   a.publications,
			ExportCacheTTL: cfg.ExportCacheTTL,
			Metrics:        metrics.New(),
			Logger:         logger,
		})
		return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Port))
	},
}
