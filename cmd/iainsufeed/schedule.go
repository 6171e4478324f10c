package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nDmitry/iainsufeed/internal/pubdate"
	"github.com/robfig/cron/v3"
)

// runScheduled runs the job right away and then on every tick of expr until
// ctx is cancelled. Ticks that fire while a run is in progress are skipped.
func runScheduled(ctx context.Context, j *job, expr string, logger *slog.Logger) error {
	cl := cronLogger{logger: logger}

	c := cron.New(
		cron.WithLocation(pubdate.WIB),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	run := func() {
		if err := j.Run(ctx); err != nil {
			logger.Error("Feed generation failed", "error", err)
		}
	}

	if _, err := c.AddFunc(expr, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	run()

	c.Start()
	logger.Info("Scheduler started", "schedule", expr)

	<-ctx.Done()

	// Wait for a running job to finish
	<-c.Stop().Done()

	return nil
}

// cronLogger routes cron's internal logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
