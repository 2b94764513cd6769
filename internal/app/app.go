// Package app assembles the cashbook from configuration for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/caixa/internal/infrastructure/clock"
	"github.com/iho/caixa/internal/infrastructure/config"
	"github.com/iho/caixa/internal/infrastructure/storage"
	"github.com/iho/caixa/internal/usecase"
)

// Options holds optional collaborators.
type Options struct {
	Logger    zerolog.Logger
	Recorder  usecase.Recorder
	Publisher usecase.EventPublisher
}

// App is a restored cashbook and the resources backing it.
type App struct {
	Cashbook *usecase.CashbookUseCase
	Backend  *storage.Backend
	Clock    *clock.SystemClock
	Restored usecase.RestoreResult
}

// Open connects the configured backend and restores the persisted state.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	clk := clock.NewSystemClock(loc)
	idGen := clock.NewTimestampIDGenerator()

	store := usecase.NewStore(clk, idGen)
	persistence := usecase.NewPersistence(backend.Slot, usecase.PersistenceConfig{
		Retrier: backend.Retrier,
		Key:     cfg.StateKey,
		Timeout: cfg.StorageTimeout,
	})

	cashbook := usecase.NewCashbookUseCase(store, persistence, clk, usecase.CashbookConfig{
		Publisher:   opts.Publisher,
		Recorder:    opts.Recorder,
		Logger:      opts.Logger,
		RecentLimit: cfg.RecentLimit,
	})

	restored, err := cashbook.Restore(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}

	// New IDs must sort after every restored one.
	idGen.Seed(restored.MaxID)

	opts.Logger.Info().
		Int("transactions", restored.Count).
		Bool("corrupt", restored.Corrupt).
		Str("key", persistence.Key()).
		Msg("state restored")

	return &App{
		Cashbook: cashbook,
		Backend:  backend,
		Clock:    clk,
		Restored: restored,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
