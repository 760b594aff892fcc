package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"guild-progression/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	InitLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	InitLogger(cfg.LogLevel)

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}

	return serve(app, WaitForShutdown)
}

type lifecycle interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// serve runs app until wait returns. Shutdown always runs, also when Run
// fails halfway, so the guild data is flushed before the process exits.
func serve(app lifecycle, wait func() os.Signal) (code int) {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			slog.Error("Application shutdown error", "error", err)
			code = 1
		}
	}()

	if err := app.Run(); err != nil {
		slog.Error("Failed to start application", "error", err)
		return 1
	}

	wait()
	return 0
}
