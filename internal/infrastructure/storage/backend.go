package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	fileRepo "github.com/iho/caixa/internal/adapter/repository/file"
	memoryRepo "github.com/iho/caixa/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/caixa/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/caixa/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/caixa/internal/adapter/repository/sqlite"
	"github.com/iho/caixa/internal/infrastructure/config"
	"github.com/iho/caixa/internal/infrastructure/postgres"
	"github.com/iho/caixa/internal/infrastructure/redis"
	"github.com/iho/caixa/internal/infrastructure/retry"
	"github.com/iho/caixa/internal/usecase"
)

// Backend bundles the persistence ports for the configured storage backend.
type Backend struct {
	Name        string
	Slot        usecase.Slot
	Retrier     usecase.Retrier
	Idempotency usecase.IdempotencyStore

	closers []func() error
}

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	b := &Backend{
		Name:        cfg.Backend,
		Idempotency: memoryRepo.NewIdempotencyStore(),
	}

	var classify retry.Classifier

	switch cfg.Backend {
	case config.BackendMemory:
		b.Slot = memoryRepo.NewSlot()

	case config.BackendFile:
		slot, err := fileRepo.NewSlot(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		b.Slot = slot

	case config.BackendSQLite:
		slot, err := sqliteRepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		b.Slot = slot
		b.closers = append(b.closers, slot.Close)
		classify = sqliteRepo.IsRetryable

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.StorageTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.Slot = redisRepo.NewSlot(client)
		b.Idempotency = redisRepo.NewIdempotencyStore(client)
		b.closers = append(b.closers, client.Close)
		classify = redisRepo.IsRetryable

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.StorageTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		b.Slot = postgresRepo.NewSlot(pool)
		b.closers = append(b.closers, func() error {
			pool.Close()
			return nil
		})
		classify = postgresRepo.IsRetryable

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}

	if classify != nil {
		b.Retrier = retry.New(classify, logger)
	}

	logger.Info().Str("backend", b.Name).Msg("storage backend ready")

	return b, nil
}

// Close releases connections in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
