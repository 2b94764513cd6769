package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iho/caixa/internal/app"
	"github.com/iho/caixa/internal/infrastructure/config"
	"github.com/iho/caixa/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(logger.Config{Output: os.Stderr, Level: level, Format: "console"})

	rootCmd := newRootCmd(func(ctx context.Context) (*app.App, error) {
		return app.Open(ctx, cfg, app.Options{Logger: log})
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// opener connects to the configured backend and restores the cashbook.
type opener func(ctx context.Context) (*app.App, error)

func withApp(ctx context.Context, open opener, fn func(a *app.App) error) error {
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
