package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/allisson/assetvault/internal/app"
	"github.com/allisson/assetvault/internal/config"
	"github.com/allisson/assetvault/internal/http"
	outboxUsecase "github.com/allisson/assetvault/internal/outbox/usecase"
)

// RunWorker delivers password-change notifications until SIGINT/SIGTERM. The
// metrics server runs alongside when metrics are enabled.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	outbox, err := container.OutboxUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox use case: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runWorker(ctx, outbox, metricsServer, cfg.ServerShutdownTimeout, logger)
}

func runWorker(
	ctx context.Context,
	outbox outboxUsecase.UseCase,
	metricsServer *http.MetricsServer,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	services := map[string]lifecycle{
		"outbox processor": &processorLifecycle{outbox: outbox, stop: make(chan struct{})},
	}
	if metricsServer != nil {
		services["metrics server"] = metricsServer
	}

	if err := serveUntilDone(ctx, services, shutdownTimeout, logger); err != nil {
		return err
	}

	logger.Info("worker stopped")
	return nil
}

// processorLifecycle adapts the outbox polling loop to Start/Shutdown.
type processorLifecycle struct {
	outbox outboxUsecase.UseCase
	stop   chan struct{}
	once   sync.Once
}

func (p *processorLifecycle) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-p.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := p.outbox.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (p *processorLifecycle) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.stop) })
	return nil
}
