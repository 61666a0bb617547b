package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"covid-estimator/internal/config"
	"covid-estimator/internal/engine"
	"covid-estimator/internal/handler"
	"covid-estimator/internal/logging"
	"covid-estimator/internal/ratioregistry"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the estimator HTTP service",
	Long:  "serve exposes /estimate, /calculate and /healthz over HTTP. With --config the ratio defaults follow edits to the file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return err
		}

		logger := logging.New(os.Stderr, cfg.Log.Level)
		slog.SetDefault(logger)

		registry := ratioregistry.New(cfg.Registry.URL, cfg.Registry.Timeout, logger)
		eng := engine.New(cfg.EstimatorRatios(), registry)
		h := handler.New(eng, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveConfigPath != "" {
			go func() {
				err := config.Watch(ctx, serveConfigPath, func(c *config.Config) {
					eng.SetDefaults(c.EstimatorRatios())
					slog.Info("serve: ratio defaults updated", "ratios", c.EstimatorRatios())
				})
				if err != nil {
					slog.Error("serve: config watch stopped", "err", err)
				}
			}()
		}

		srv := &fasthttp.Server{
			Handler:      h.Serve,
			Name:         "covid-estimator",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("serve: listening", "addr", cfg.Addr(), "registry", registry.Enabled())
			errCh <- srv.ListenAndServe(cfg.Addr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		slog.Info("serve: stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to service configuration YAML")
}
