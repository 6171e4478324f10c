package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nDmitry/iainsufeed/internal/app"
	"github.com/nDmitry/iainsufeed/internal/config"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("FEED_CONFIG"), "path to a JSON or YAML config file")
	once := flag.Bool("once", false, "run once even if a schedule is configured")
	flag.Parse()

	logger := app.Logger()
	slog.SetDefault(logger)

	cfg, err := config.Read(*configPath)

	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		logger.Error("Output directory is not usable", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, starting graceful shutdown...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	j := newJob(cfg, logger)

	if cfg.Schedule == "" || *once {
		if err := j.Run(ctx); err != nil {
			logger.Error("Feed generation failed", "error", err)
		}

		return
	}

	if err := runScheduled(ctx, j, cfg.Schedule, logger); err != nil {
		logger.Error("Scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("Scheduler exited gracefully")
}
