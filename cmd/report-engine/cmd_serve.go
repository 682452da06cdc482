package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/config"
	"github.com/kingrea/report-engine/internal/server"
)

var (
	serveWatch bool
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report generation over HTTP",
	Long: `Starts the HTTP server:

  POST /v1/reports  generate a report (request, record, legacy slots)
  POST /v1/plans    build a plan only
  GET  /health      liveness and injection mode

With --watch the engine config and metadata files are reloaded when
they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload configuration when the files change")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the configured port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := config.NewFileProvider(configPath, config.WithProviderLogger(logger))
	if err != nil {
		return err
	}
	snap, err := provider.Snapshot()
	if err != nil {
		return err
	}
	eng, err := newEngine(snap)
	if err != nil {
		return err
	}
	settings := server.SettingsFromConfig(snap.Engine.Server)
	if servePort > 0 {
		settings.Port = servePort
	}
	srv := server.New(settings, eng, server.WithLogger(logger))
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", headingStyle.Render("serving"), srv.BaseURL())

	if serveWatch {
		go func() {
			err := provider.Watch(ctx, func(next *config.Snapshot) {
				reloaded, err := newEngine(next)
				if err != nil {
					logger.Warn("engine rebuild failed", zap.Error(err))
					return
				}
				srv.SetEngine(reloaded)
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
