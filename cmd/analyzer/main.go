package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/social-insight/internal/app"
	"github.com/lueurxax/social-insight/internal/core/artifacts"
	"github.com/lueurxax/social-insight/internal/platform/config"
)

func main() {
	mode := flag.String("mode", "once", "Service mode (once, watch, post)")
	post := flag.String("post", "", "Permalink of the post to drill into (post mode)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := artifacts.Load(os.DirFS(cfg.Artifacts.Dir), artifacts.Files{
		Sentiment:  cfg.Artifacts.SentimentModel,
		Emotion:    cfg.Artifacts.EmotionModel,
		Vectorizer: cfg.Artifacts.Vectorizer,
	}, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load model artifacts")
	}

	application, err := app.New(cfg, store, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}

	if cfg.HealthPort > 0 {
		// Start health server in background
		go func() {
			if err := application.StartHealthServer(ctx); err != nil {
				logger.Error().Err(err).Msg("health check server error")
			}
		}()
	}

	if err := runMode(ctx, application, *mode, *post); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode, post string) error {
	switch mode {
	case "once":
		return application.RunOnce(ctx)
	case "watch":
		return application.RunWatch(ctx)
	case "post":
		if post == "" {
			log.Fatalf("Usage: %s --mode=post --post=<permalink>", os.Args[0])
		}

		return application.RunPostDetail(ctx, post)
	default:
		log.Fatalf("Usage: %s --mode=[once|watch|post]", os.Args[0])

		return nil
	}
}
