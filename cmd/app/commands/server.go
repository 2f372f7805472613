package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/qrseal/internal/app"
	"github.com/allisson/qrseal/internal/config"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

const shutdownTimeout = 30 * time.Second

// RunServer starts the API and metrics servers and blocks until SIGINT/SIGTERM
// or a server failure. When enabled, the shared secret is warmed up in the
// background; a failed warm-up is logged and the server keeps running.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("secret_provider", cfg.SecretProvider),
		slog.String("cipher_algorithm", cfg.CipherAlgorithm),
	)

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	secretCache, err := container.SecretCache()
	if err != nil {
		return fmt.Errorf("failed to initialize secret cache: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	warmupDone := make(chan struct{})
	go func() {
		defer close(warmupDone)
		if !cfg.SecretWarmupEnabled {
			return
		}
		if err := secretUseCase.WarmUp(ctx, secretCache, cfg.SecretWarmupMaxDuration, logger); err != nil {
			logger.Warn("secret warm-up did not complete; secret will be fetched on demand",
				slog.Any("error", err),
			)
		}
	}()

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", runErr))
		cancel()
	}

	<-warmupDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}
	return runErr
}
