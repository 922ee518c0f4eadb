// Package pipeline runs every analysis stage over one dataset snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/social-insight/internal/core/artifacts"
	"github.com/lueurxax/social-insight/internal/core/domain"
	"github.com/lueurxax/social-insight/internal/ingest/dataset"
	"github.com/lueurxax/social-insight/internal/output/report"
	"github.com/lueurxax/social-insight/internal/platform/observability"
	"github.com/lueurxax/social-insight/internal/process/classify"
	"github.com/lueurxax/social-insight/internal/process/normalize"
	"github.com/lueurxax/social-insight/internal/process/peaks"
	"github.com/lueurxax/social-insight/internal/process/topics"
	"github.com/lueurxax/social-insight/internal/process/vectorize"
)

// Config bounds the expensive stages.
type Config struct {
	TopicKMin       int
	TopicKMax       int
	SearchTimeout   time.Duration
	PerLabelTopics  int
	PerLabelMinDocs int
	Peaks           peaks.Params
	WordFreqLimit   int
}

// Pipeline holds the immutable per-process components. Analyze may be called
// concurrently.
type Pipeline struct {
	cfg        Config
	normalizer *normalize.Normalizer
	vectorizer *vectorize.Vectorizer
	sentiment  *classify.Classifier
	emotion    *classify.Classifier
	modeler    *topics.Modeler
	aggregator *report.Aggregator
	logger     *zerolog.Logger
}

// New builds the classifiers from the artifact store. An artifact that does not
// fit the label sets is an ErrArtifactLoad.
func New(
	cfg Config,
	store *artifacts.Store,
	normalizer *normalize.Normalizer,
	modeler *topics.Modeler,
	aggregator *report.Aggregator,
	logger *zerolog.Logger,
) (*Pipeline, error) {
	sentiment, err := classify.NewSentiment(store.Sentiment)
	if err != nil {
		return nil, err
	}

	emotion, err := classify.NewEmotion(store.Emotion)
	if err != nil {
		return nil, err
	}

	if cfg.TopicKMin < 1 {
		cfg.TopicKMin = DefaultTopicKMin
	}

	if cfg.TopicKMax < cfg.TopicKMin {
		cfg.TopicKMax = max(DefaultTopicKMax, cfg.TopicKMin)
	}

	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}

	if cfg.PerLabelTopics < 1 {
		cfg.PerLabelTopics = DefaultPerLabelTopics
	}

	if cfg.PerLabelMinDocs < 1 {
		cfg.PerLabelMinDocs = DefaultPerLabelDocs
	}

	if cfg.Peaks.MinPoints < 1 {
		cfg.Peaks = peaks.Params{Eps: peaks.DefaultEps, MinPoints: peaks.DefaultMinPoints}
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Pipeline{
		cfg:        cfg,
		normalizer: normalizer,
		vectorizer: vectorize.New(store.Vocabulary),
		sentiment:  sentiment,
		emotion:    emotion,
		modeler:    modeler,
		aggregator: aggregator,
		logger:     logger,
	}, nil
}

// Analyze recomputes the full report for snap.
func (p *Pipeline) Analyze(ctx context.Context, snap *dataset.Snapshot) (*report.Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str(LogFieldRunID, runID).Str(LogFieldSnapshot, snap.ID).Logger()
	start := time.Now()

	logger.Info().Int("posts", len(snap.Posts)).Int("replies", len(snap.Replies)).Msg(msgAnalysisStarted)

	rep, err := p.analyze(ctx, snap, &logger)

	observability.AnalysisDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.AnalysisRuns.WithLabelValues(runStatusError).Inc()
		return nil, err
	}

	observability.AnalysisRuns.WithLabelValues(runStatusOK).Inc()

	rep.RunID = runID
	rep.Dataset = snap.Name
	rep.SnapshotID = snap.ID

	logger.Info().Dur(LogFieldDuration, time.Since(start)).Msg(msgAnalysisFinished)

	return rep, nil
}

func (p *Pipeline) analyze(ctx context.Context, snap *dataset.Snapshot, logger *zerolog.Logger) (*report.Report, error) {
	var replyText []domain.NormalizedText

	timed(stageNormalize, func() {
		texts := make([]string, len(snap.Replies))
		for i, r := range snap.Replies {
			texts[i] = r.Text
		}

		replyText = p.normalizer.NormalizeAll(texts)
	})

	sentiment, emotion := p.classify(snap.Replies, replyText, logger)

	topicRes, err := p.discoverTopics(ctx, snap.Posts, logger)
	if err != nil {
		return nil, err
	}

	labelTopics, err := p.labelTopics(ctx, snap.Replies, replyText, sentiment, logger)
	if err != nil {
		return nil, err
	}

	var peakRes peaks.Result

	timed(stagePeaks, func() {
		times := make([]time.Time, 0, len(snap.Replies))
		for _, r := range snap.Replies {
			if !r.CreatedAt.IsZero() {
				times = append(times, r.CreatedAt)
			}
		}

		peakRes = peaks.Find(peaks.HistogramFromTimes(times, snap.Location), p.cfg.Peaks)
	})

	observability.PeakClusters.Set(float64(peakRes.NumClusters))

	if !peakRes.OK {
		observability.StageFailures.WithLabelValues(stagePeaks).Inc()
		logger.Info().Str(LogFieldReason, peakRes.Reason).Msg(msgNoPeak)
	}

	tokens := make([][]string, len(replyText))
	for i, t := range replyText {
		tokens[i] = t.Tokens
	}

	var rep *report.Report

	timed(stageAggregate, func() {
		rep, err = p.aggregator.Aggregate(report.Input{
			Posts:           snap.Posts,
			Replies:         snap.Replies,
			ReplyTokens:     tokens,
			Sentiment:       sentiment.Results,
			Emotion:         emotion.Results,
			Topics:          topicRes,
			SentimentTopics: labelTopics,
			Peaks:           &peakRes,
		})
	})

	if err != nil {
		return nil, err
	}

	rep.DataQuality.RowWarnings = len(snap.Warnings)
	p.recordDataQuality(rep.DataQuality, logger)

	return rep, nil
}

func (p *Pipeline) classify(replies []domain.Reply, text []domain.NormalizedText, logger *zerolog.Logger) (classify.Batch, classify.Batch) {
	var rows *vectorize.Matrix

	timed(stageVectorize, func() {
		texts := make([]string, len(text))
		for i, t := range text {
			texts[i] = t.Text
		}

		rows = p.vectorizer.Vectorize(texts)
	})

	ids := make([]string, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}

	var sentiment, emotion classify.Batch

	timed(stageClassify, func() {
		sentiment = p.sentiment.ClassifyRows(ids, rows)
		emotion = p.emotion.ClassifyRows(ids, rows)
	})

	for _, b := range []struct {
		kind  classify.Kind
		batch classify.Batch
	}{{classify.KindSentiment, sentiment}, {classify.KindEmotion, emotion}} {
		kind := string(b.kind)

		for _, r := range b.batch.Results {
			observability.ClassifiedItems.WithLabelValues(kind, string(r.Label)).Inc()
		}

		observability.FallbackLabels.WithLabelValues(kind).Add(float64(b.batch.Fallbacks))
		observability.ClassificationRowErrors.WithLabelValues(kind).Add(float64(b.batch.Errors))

		if b.batch.Errors > 0 {
			logger.Warn().Str("classifier", kind).Int(LogFieldCount, b.batch.Errors).Msg(msgRowErrors)
		}
	}

	return sentiment, emotion
}

// discoverTopics runs the K search over post captions within the configured
// time budget. Running out of budget yields a not-OK result; cancellation of
// the caller's context is returned as an error.
func (p *Pipeline) discoverTopics(ctx context.Context, posts []domain.Post, logger *zerolog.Logger) (*topics.Result, error) {
	docs := make([]topics.Document, len(posts))
	for i, post := range posts {
		docs[i] = topics.Document{ID: post.ID(), Text: p.normalizer.Normalize(post.Caption)}
	}

	searchCtx, cancel := context.WithTimeout(ctx, p.cfg.SearchTimeout)
	defer cancel()

	start := time.Now()
	res, err := p.modeler.Discover(searchCtx, docs, p.cfg.TopicKMin, p.cfg.TopicKMax)

	observability.StageDurationSeconds.WithLabelValues(stageTopics).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, fmt.Errorf("topic search: %w", ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		res = &topics.Result{Reason: reasonSearchTimeout, Topics: []domain.Topic{}}
	default:
		return nil, fmt.Errorf("topic search: %w", err)
	}

	if !res.OK {
		observability.StageFailures.WithLabelValues(stageTopics).Inc()
		logger.Warn().Str(LogFieldReason, res.Reason).Msg(msgTopicsUnavailable)
	}

	return res, nil
}

// labelTopics fits a small fixed-size topic model over the replies of each
// sentiment label. Labels with too few replies are left out. The fits share the
// topic search budget; labels not reached before it runs out are left out too.
func (p *Pipeline) labelTopics(
	ctx context.Context,
	replies []domain.Reply,
	text []domain.NormalizedText,
	sentiment classify.Batch,
	logger *zerolog.Logger,
) (map[domain.Label][]domain.Topic, error) {
	fitCtx, cancel := context.WithTimeout(ctx, p.cfg.SearchTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		observability.StageDurationSeconds.WithLabelValues(stageLabelLDA).Observe(time.Since(start).Seconds())
	}()

	byLabel := make(map[domain.Label][]topics.Document)

	for i, res := range sentiment.Results {
		if i >= len(replies) || i >= len(text) {
			break
		}

		byLabel[res.Label] = append(byLabel[res.Label], topics.Document{ID: replies[i].ID, Text: text[i]})
	}

	out := make(map[domain.Label][]domain.Topic)

	for _, label := range domain.SentimentLabels() {
		docs := byLabel[label]
		if len(docs) == 0 {
			continue
		}

		res, err := p.modeler.FitFixed(fitCtx, docs, p.cfg.PerLabelTopics, p.cfg.PerLabelMinDocs)

		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%s topics: %w", label, ctx.Err())
		case errors.Is(err, context.DeadlineExceeded):
			observability.StageFailures.WithLabelValues(stageLabelLDA).Inc()
			logger.Warn().Str(LogFieldReason, reasonSearchTimeout).Str("label", string(label)).Msg(msgTopicsUnavailable)

			return out, nil
		default:
			return nil, fmt.Errorf("%s topics: %w", label, err)
		}

		if res.OK {
			out[label] = res.Topics
		}
	}

	return out, nil
}

// PostDetail builds the drill-down view of one post in snap.
func (p *Pipeline) PostDetail(snap *dataset.Snapshot, permalink string) (*report.PostDetail, error) {
	return report.BuildPostDetail(snap.Posts, snap.Replies, permalink, p.normalizer, p.cfg.WordFreqLimit)
}

func (p *Pipeline) recordDataQuality(q report.DataQuality, logger *zerolog.Logger) {
	observability.DataQualityWarnings.WithLabelValues(qualityPostsWithoutID).Add(float64(q.PostsWithoutID))
	observability.DataQualityWarnings.WithLabelValues(qualityOrphanReplies).Add(float64(q.OrphanReplies))
	observability.DataQualityWarnings.WithLabelValues(qualityRowWarnings).Add(float64(q.RowWarnings))

	if q.PostsWithoutID > 0 || q.OrphanReplies > 0 || q.RowWarnings > 0 {
		logger.Warn().
			Int(qualityPostsWithoutID, q.PostsWithoutID).
			Int(qualityOrphanReplies, q.OrphanReplies).
			Int(qualityRowWarnings, q.RowWarnings).
			Msg(msgDataQuality)
	}
}

func timed(stage string, fn func()) {
	start := time.Now()
	fn()
	observability.StageDurationSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
