// Package app wires the analysis components together and exposes the
// operational modes of the analyzer:
//
//   - Once mode: load the dataset, analyze it and write a single report
//   - Watch mode: re-run the analysis every time the dataset files change
//   - Post mode: write the drill-down view of one post
//
// The health and metrics server runs alongside any mode when a port is set.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/social-insight/internal/core/artifacts"
	"github.com/lueurxax/social-insight/internal/ingest/dataset"
	"github.com/lueurxax/social-insight/internal/output/report"
	"github.com/lueurxax/social-insight/internal/platform/config"
	"github.com/lueurxax/social-insight/internal/platform/observability"
	"github.com/lueurxax/social-insight/internal/platform/worker"
	"github.com/lueurxax/social-insight/internal/process/normalize"
	"github.com/lueurxax/social-insight/internal/process/peaks"
	"github.com/lueurxax/social-insight/internal/process/pipeline"
	"github.com/lueurxax/social-insight/internal/process/topics"
)

const (
	watcherName       = "dataset-watcher"
	logFieldOutput    = "output"
	logFieldPermalink = "permalink"
	tempFilePattern   = ".report-*.json"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	datasets *dataset.Store
	files    dataset.Files
	logger   *zerolog.Logger
	out      io.Writer
}

// New builds the pipeline from cfg and the loaded artifacts.
func New(cfg *config.Config, store *artifacts.Store, logger *zerolog.Logger) (*App, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	rules, err := report.LoadRules(cfg.Report.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading recommendation rules: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	normalizer := normalize.New(
		normalize.WithMinTokenLen(cfg.Normalizer.MinTokenLen),
		normalize.WithExtraStopwords(cfg.Normalizer.ExtraStopwords...),
	)

	topicCfg := topics.DefaultConfig()
	topicCfg.Folds = cfg.Topics.CVFolds
	topicCfg.MaxIter = cfg.Topics.MaxIter
	topicCfg.BatchSize = cfg.Topics.BatchSize
	topicCfg.Parallelism = cfg.Topics.Parallelism
	topicCfg.Seed = cfg.Topics.Seed

	var cache topics.Cache
	if cfg.Topics.CacheTTL > 0 {
		cache = topics.NewMemoryCache(cfg.Topics.CacheTTL)
	}

	aggregator := report.NewAggregator(report.Config{
		WordFreqLimit: cfg.Report.WordFreqLimit,
		HashtagLimit:  cfg.Report.HashtagLimit,
		TopPosts:      cfg.Topics.TopPosts,
	}, rules)

	p, err := pipeline.New(
		pipeline.Config{
			TopicKMin:     cfg.Topics.KMin,
			TopicKMax:     cfg.Topics.KMax,
			SearchTimeout: cfg.Topics.SearchTimeout,
			Peaks:         peaks.Params{Eps: cfg.Peaks.Eps, MinPoints: cfg.Peaks.MinPoints},
			WordFreqLimit: cfg.Report.WordFreqLimit,
		},
		store,
		normalizer,
		topics.NewModeler(topicCfg, cache, logger),
		aggregator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	return &App{
		cfg:      cfg,
		pipeline: p,
		datasets: dataset.NewStore(logger),
		files: dataset.Files{
			Name:        cfg.Dataset.PostsFile,
			PostsPath:   cfg.DatasetPath(cfg.Dataset.PostsFile),
			RepliesPath: cfg.DatasetPath(cfg.Dataset.RepliesFile),
			Location:    loc,
		},
		logger: logger,
		out:    os.Stdout,
	}, nil
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	server := observability.NewServer(a.cfg.HealthPort, a.Ready, a.logger)

	return server.Start(ctx)
}

// Ready reports whether a dataset snapshot is available for analysis.
func (a *App) Ready(_ context.Context) error {
	_, err := a.datasets.Current()

	return err
}

// RunOnce loads the dataset, analyzes it and writes the report.
func (a *App) RunOnce(ctx context.Context) error {
	a.logger.Info().Msg("Starting one-shot analysis")

	return a.refresh(ctx)
}

// RunWatch re-analyzes the dataset each time one of its files changes.
func (a *App) RunWatch(ctx context.Context) error {
	a.logger.Info().Dur("interval", a.cfg.WatchInterval).Msg("Starting watch mode")

	return worker.Watch(ctx, worker.WatchConfig{
		Name:     watcherName,
		Interval: a.cfg.WatchInterval,
		Version: func(context.Context) (time.Time, error) {
			return a.files.ModTime()
		},
		OnChange: a.refresh,
		Logger:   a.logger,
	})
}

// RunPostDetail writes the drill-down view of the post identified by permalink.
func (a *App) RunPostDetail(_ context.Context, permalink string) error {
	snap, err := a.load()
	if err != nil {
		return err
	}

	detail, err := a.pipeline.PostDetail(snap, permalink)
	if err != nil {
		return fmt.Errorf("post %s: %w", permalink, err)
	}

	a.logger.Info().Str(logFieldPermalink, permalink).Int("replies", detail.ReplyCount).Msg("Post detail built")

	return a.writeJSON(detail)
}

func (a *App) refresh(ctx context.Context) error {
	snap, err := a.load()
	if err != nil {
		return err
	}

	rep, err := a.pipeline.Analyze(ctx, snap)
	if err != nil {
		return fmt.Errorf("analyzing snapshot %s: %w", snap.ID, err)
	}

	return a.writeJSON(rep)
}

func (a *App) load() (*dataset.Snapshot, error) {
	snap, err := a.files.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	a.datasets.Swap(snap)

	return snap, nil
}

// writeJSON writes v to the configured output path, or to stdout when none is
// set. File output is replaced atomically so readers never see a partial report.
func (a *App) writeJSON(v any) error {
	if a.cfg.OutputPath == "" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}

		return nil
	}

	dir := filepath.Dir(a.cfg.OutputPath)

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup after rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding output: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp output: %w", err)
	}

	if err := os.Rename(tmp.Name(), a.cfg.OutputPath); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}

	a.logger.Info().Str(logFieldOutput, a.cfg.OutputPath).Msg("Report written")

	return nil
}
