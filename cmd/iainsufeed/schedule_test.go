package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nDmitry/iainsufeed/internal/config"
	"github.com/nDmitry/iainsufeed/internal/entity"
	"github.com/nDmitry/iainsufeed/internal/fetcher"
	"github.com/stretchr/testify/assert"
)

func TestRunScheduledInvalidSpec(t *testing.T) {
	var logs bytes.Buffer
	j := testJob(config.Default(), &logs)

	err := runScheduled(context.Background(), j, "every tuesday", j.logger)

	assert.ErrorContains(t, err, "invalid schedule")
}

func TestRunScheduledStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.OutputPath = t.TempDir() + "/feed.xml"

	var logs bytes.Buffer
	runs := 0

	j := testJob(cfg, &logs)
	j.newTransport = func(context.Context, *entity.Config) (fetcher.Transport, error) {
		runs++
		return nil, errors.New("offline")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runScheduled(ctx, j, "0 */6 * * *", j.logger))
	assert.Equal(t, 1, runs)
	assert.Contains(t, logs.String(), "offline")
}
