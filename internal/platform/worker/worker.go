// Package worker runs a named job on a fixed interval until its context ends.
// Watch mode re-analyzes the dataset through it.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFieldWorker   = "worker"
	logFieldFailures = "consecutive_failures"
	logFieldPanic    = "panic"
)

// ProcessFunc is one iteration of a worker.
type ProcessFunc func(ctx context.Context) error

// Config describes a worker.
type Config struct {
	Name     string
	Interval time.Duration
	Process  ProcessFunc
	Logger   *zerolog.Logger
}

// Loop runs cfg.Process immediately and then every Interval. A failing or
// panicking iteration is logged with the current failure streak and the loop
// carries on. Loop returns only when ctx ends.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	log := logger.With().Str(logFieldWorker, cfg.Name).Logger()
	log.Info().Dur("interval", cfg.Interval).Msg("worker started")

	defer log.Info().Msg("worker stopped")

	failures := 0

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("worker %s: %w", cfg.Name, err)
		}

		if err := runOnce(ctx, cfg.Process); err != nil {
			failures++

			log.Error().Err(err).Int(logFieldFailures, failures).Msg("worker iteration failed")
		} else {
			failures = 0
		}

		if err := Wait(ctx, cfg.Interval); err != nil {
			return fmt.Errorf("worker %s: %w", cfg.Name, err)
		}
	}
}

// runOnce turns a panic in fn into an error so the loop can count it.
func runOnce(ctx context.Context, fn ProcessFunc) (err error) {
	if fn == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", logFieldPanic, r)
		}
	}()

	return fn(ctx)
}

// Wait blocks for d or until ctx ends, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
