package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// VersionFunc reports the current version of a watched resource, usually its
// modification time.
type VersionFunc func(ctx context.Context) (time.Time, error)

// WatchConfig configures Watch.
type WatchConfig struct {
	Name     string
	Interval time.Duration
	Version  VersionFunc
	// OnChange runs once for the first readable version and again every time
	// the version moves forward.
	OnChange func(ctx context.Context) error
	Logger   *zerolog.Logger
}

// Watch polls Version and calls OnChange when it advances. Errors from either
// callback are logged and retried on the next poll; a failed OnChange is retried
// for the same version.
func Watch(ctx context.Context, cfg WatchConfig) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	var seen time.Time

	return Loop(ctx, Config{
		Name:     cfg.Name,
		Interval: cfg.Interval,
		Logger:   logger,
		Process: func(ctx context.Context) error {
			version, err := cfg.Version(ctx)
			if err != nil {
				return fmt.Errorf("reading version: %w", err)
			}

			if !version.After(seen) {
				return nil
			}

			logger.Info().Str(logFieldWorker, cfg.Name).Time("version", version).Msg("change detected")

			if err := cfg.OnChange(ctx); err != nil {
				return fmt.Errorf("handling change: %w", err)
			}

			seen = version

			return nil
		},
	})
}
