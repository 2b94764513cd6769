package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/caixa/internal/adapter/http"
	"github.com/iho/caixa/internal/adapter/http/handler"
	"github.com/iho/caixa/internal/app"
	"github.com/iho/caixa/internal/infrastructure/config"
	"github.com/iho/caixa/internal/infrastructure/eventpublisher"
	"github.com/iho/caixa/internal/infrastructure/logger"
	"github.com/iho/caixa/internal/infrastructure/metrics"
	"github.com/iho/caixa/internal/usecase"
)

func main() {
	// Optional .env for local runs
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "caixa",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// run serves the API until ctx is cancelled. When ready is non-nil it
// receives the listening address.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, ready chan<- string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	a, err := app.Open(ctx, cfg, app.Options{
		Logger:    logger,
		Recorder:  metrics.New(reg),
		Publisher: publisher,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CashbookHandler:  handler.NewCashbookHandler(a.Cashbook),
		HealthHandler:    handler.NewHealthHandler(handler.Check{Name: a.Backend.Name, Pinger: a.Cashbook}),
		IdempotencyStore: a.Backend.Idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Registerer:       reg,
		Gatherer:         reg,
		Logger:           logger,
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.HTTPPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	server := &http.Server{
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", listener.Addr().String()).Msg("starting server")
		if ready != nil {
			ready <- listener.Addr().String()
		}
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher returns the AMQP publisher when AMQP_URL is set and a logging
// publisher otherwise.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (usecase.EventPublisher, func(), error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}

	p, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to amqp: %w", err)
	}

	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close amqp publisher")
		}
	}, nil
}
