package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ReservationService/internal/app"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

func newServeCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the slot horizon job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()

			log.Info("Starting %s...", serviceTitle)

			// Инициализируем метрики (если включены)
			var metricsCollector *metrics.Metrics
			if cfg.Metrics.Enabled {
				metricsCollector = metrics.New(cfg.Metrics.ServiceName)
				log.Info("Metrics enabled at %s", cfg.Metrics.Path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, metricsCollector, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error("Failed to release resources: %v", err)
				}
			}()

			if cfg.Booking.Horizon.Enabled {
				if err := a.Horizon.Start(cfg.Booking.Horizon.Cron); err != nil {
					return err
				}
			}

			addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      a.Router,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("Starting server on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			// Ожидаем сигнал завершения
			select {
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}

			log.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
			)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Server forced to shutdown: %v", err)
			}

			log.Info("Server stopped gracefully")
			return nil
		},
	}
}
