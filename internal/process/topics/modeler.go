// Package topics discovers discussion themes with online LDA and picks the
// number of topics by cross-validated held-out likelihood.
package topics

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lueurxax/social-insight/internal/core/domain"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
	"github.com/lueurxax/social-insight/internal/platform/observability"
)

// Config tunes the LDA fits and the K search.
//
// Cancellation is checked between fits: before each fold, between a fold's fit
// and its held-out inference, and before the final fit. A single LDA fit that
// has already started runs to completion, so a deadline can be overrun by at
// most one fit per parallel worker.
type Config struct {
	Folds                int
	MaxIter              int
	TransformationPasses int
	BatchSize            int
	Parallelism          int
	Seed                 int64
	TieTolerance         float64
}

// DefaultConfig mirrors the settings the dashboard models were tuned with.
func DefaultConfig() Config {
	return Config{
		Folds:                defaultFolds,
		MaxIter:              defaultMaxIter,
		TransformationPasses: defaultTransformationPasses,
		BatchSize:            defaultBatchSize,
		Seed:                 defaultSeed,
		TieTolerance:         defaultTieTolerance,
	}
}

// Document is one item of the corpus.
type Document struct {
	ID   string
	Text domain.NormalizedText
}

// CandidateScore is the mean held-out log-likelihood per token for one K.
type CandidateScore struct {
	K     int     `json:"k"`
	Score float64 `json:"score"`
}

// Result is the outcome of topic discovery. OK is false when the corpus is too
// small; Reason then explains why and Topics is empty.
type Result struct {
	OK          bool                     `json:"ok"`
	Reason      string                   `json:"reason,omitempty"`
	K           int                      `json:"k"`
	Topics      []domain.Topic           `json:"topics"`
	Assignments []domain.TopicAssignment `json:"assignments"`
	Scores      []CandidateScore         `json:"scores,omitempty"`
	Cached      bool                     `json:"cached,omitempty"`
}

// Modeler runs topic discovery. It is safe for concurrent use.
type Modeler struct {
	cfg    Config
	cache  Cache
	logger *zerolog.Logger
}

// NewModeler creates a Modeler. cache may be nil.
func NewModeler(cfg Config, cache Cache, logger *zerolog.Logger) *Modeler {
	if cfg.Folds < 1 {
		cfg.Folds = defaultFolds
	}

	if cfg.MaxIter < 1 {
		cfg.MaxIter = defaultMaxIter
	}

	if cfg.TransformationPasses < 1 {
		cfg.TransformationPasses = defaultTransformationPasses
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = defaultBatchSize
	}

	if cfg.Parallelism < 1 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Modeler{cfg: cfg, cache: cache, logger: logger}
}

// prepared is a corpus reduced to documents with tokens.
type prepared struct {
	index   *termIndex
	bags    []termCounts
	members []int // position of each bag in the original corpus
	docs    []Document
}

func prepare(docs []Document) *prepared {
	p := &prepared{docs: docs}

	tokens := make([][]string, 0, len(docs))

	for i, doc := range docs {
		if doc.Text.Empty() {
			continue
		}

		tokens = append(tokens, doc.Text.Tokens)
		p.members = append(p.members, i)
	}

	p.index = buildTermIndex(tokens)

	p.bags = make([]termCounts, len(tokens))
	for i, doc := range tokens {
		p.bags[i] = p.index.bag(doc)
	}

	return p
}

// Discover searches K in [kMin, kMax] and fits the final model on the whole corpus.
// Documents without tokens are excluded from fitting and assigned domain.NoTopic.
func (m *Modeler) Discover(ctx context.Context, docs []Document, kMin, kMax int) (*Result, error) {
	if kMin < 1 || kMax < kMin {
		return nil, fmt.Errorf("%w: topic range %d..%d", apperrors.ErrInvalidInput, kMin, kMax)
	}

	key := ""
	if m.cache != nil {
		key = m.cacheKey(docs, kMin, kMax)

		if cached, err := m.cache.Get(ctx, key); err == nil {
			m.logger.Debug().Str(logFieldKey, key).Msg(msgCacheHit)

			hit := *cached
			hit.Cached = true

			if hit.OK {
				observability.TopicSelectedK.Set(float64(hit.K))
			}

			return &hit, nil
		}
	}

	p := prepare(docs)

	if res := m.checkFeasible(p, kMin); res != nil {
		return res, nil
	}

	kMax = min(kMax, p.index.size())
	kMin = min(kMin, kMax)

	k, scores, err := m.selectK(ctx, p, kMin, kMax)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("topic final fit: %w", err)
	}

	res, err := m.fitFinal(p, k)
	if err != nil {
		return nil, err
	}

	res.Scores = scores

	observability.TopicSelectedK.Set(float64(k))

	m.logger.Info().
		Int(logFieldDocuments, len(p.bags)).
		Int(logFieldTerms, p.index.size()).
		Int(logFieldK, k).
		Msg(msgTopicsDiscovered)

	if m.cache != nil {
		if err := m.cache.Put(ctx, key, res); err != nil {
			m.logger.Warn().Err(err).Msg(msgCachePutFailed)
		}
	}

	return res, nil
}

// FitFixed fits exactly k topics without a search. Corpora with fewer than
// minDocs non-empty documents return a not-OK result. ctx is checked before the fit.
func (m *Modeler) FitFixed(ctx context.Context, docs []Document, k, minDocs int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("topic fit k=%d: %w", k, err)
	}

	p := prepare(docs)

	if len(p.bags) < minDocs {
		return insufficient(p, fmt.Sprintf("need at least %d documents, have %d", minDocs, len(p.bags))), nil
	}

	if res := m.checkFeasible(p, k); res != nil {
		return res, nil
	}

	return m.fitFinal(p, min(k, p.index.size()))
}

func (m *Modeler) checkFeasible(p *prepared, kMin int) *Result {
	if len(p.bags) == 0 {
		return insufficient(p, reasonEmptyCorpus)
	}

	if p.index.size() < minDistinctTerms {
		m.logger.Warn().Int(logFieldTerms, p.index.size()).Int(logFieldKMin, kMin).Msg(msgInsufficientVocab)

		return insufficient(p, fmt.Sprintf("%s: %d distinct terms", reasonInsufficientVocab, p.index.size()))
	}

	return nil
}

func insufficient(p *prepared, reason string) *Result {
	return &Result{
		OK:          false,
		Reason:      reason,
		Topics:      []domain.Topic{},
		Assignments: emptyAssignments(p.docs),
	}
}

func emptyAssignments(docs []Document) []domain.TopicAssignment {
	out := make([]domain.TopicAssignment, len(docs))
	for i, doc := range docs {
		out[i] = domain.TopicAssignment{DocID: doc.ID, Topic: domain.NoTopic}
	}

	return out
}

// selectK scores every candidate in parallel and keeps the best; near-ties go to the smaller K.
func (m *Modeler) selectK(ctx context.Context, p *prepared, kMin, kMax int) (int, []CandidateScore, error) {
	if kMin == kMax || distinctBags(p) == 1 {
		return kMin, nil, nil
	}

	start := time.Now()
	defer func() {
		observability.TopicSearchDuration.Observe(time.Since(start).Seconds())
	}()

	scores := make([]CandidateScore, kMax-kMin+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Parallelism)

	for i := range scores {
		i := i
		k := kMin + i

		g.Go(func() error {
			score, err := m.crossValidate(gctx, p, k)
			if err != nil {
				return err
			}

			scores[i] = CandidateScore{K: k, Score: score}

			m.logger.Debug().Int(logFieldK, k).Float64(logFieldScore, score).Msg(msgCandidateScored)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, nil, fmt.Errorf("topic k search: %w", err)
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score+m.cfg.TieTolerance {
			best = s
		}
	}

	return best.K, scores, nil
}

// crossValidate returns the mean held-out per-token log-likelihood over the folds.
// Document i belongs to fold i mod folds.
func (m *Modeler) crossValidate(ctx context.Context, p *prepared, k int) (float64, error) {
	folds := min(m.cfg.Folds, len(p.bags))

	var total float64

	for f := 0; f < folds; f++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("k=%d fold %d: %w", k, f, err)
		}

		train, test := splitFold(p.bags, f, folds)

		md, _, err := m.fit(k, m.cfg.Seed+int64(k), p.index.matrix(train))
		if err != nil {
			return 0, err
		}

		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("k=%d fold %d: %w", k, f, err)
		}

		thetas, err := md.infer(p.index.matrix(test))
		if err != nil {
			return 0, err
		}

		var ll, tokens float64
		for j, bag := range test {
			ll += md.logLikelihood(thetas[j], bag)
			tokens += bag.total
		}

		total += ll / tokens
	}

	return total / float64(folds), nil
}

// splitFold partitions bags for one fold. With a single fold every bag is used for both.
func splitFold(bags []termCounts, fold, folds int) (train, test []termCounts) {
	if folds < 2 {
		return bags, bags
	}

	for i, bag := range bags {
		if i%folds == fold {
			test = append(test, bag)
		} else {
			train = append(train, bag)
		}
	}

	return train, test
}

func distinctBags(p *prepared) int {
	tokens := make([][]string, len(p.members))
	for i, idx := range p.members {
		tokens[i] = p.docs[idx].Text.Tokens
	}

	return distinctDocuments(tokens)
}

// fitFinal trains on every non-empty document and builds topics and assignments.
func (m *Modeler) fitFinal(p *prepared, k int) (*Result, error) {
	md, thetas, err := m.fit(k, m.cfg.Seed, p.index.matrix(p.bags))
	if err != nil {
		return nil, err
	}

	res := &Result{
		OK:          true,
		K:           k,
		Topics:      buildTopics(md.phi, p.index.terms),
		Assignments: emptyAssignments(p.docs),
	}

	for j, idx := range p.members {
		theta := thetas[j]
		dominant := argmax(theta)

		res.Assignments[idx] = domain.TopicAssignment{
			DocID:        p.docs[idx].ID,
			Topic:        dominant,
			Strength:     theta[dominant],
			Distribution: theta,
		}
	}

	return res, nil
}

// buildTopics ranks every term of every topic by weight; ties keep first-seen term order.
func buildTopics(phi [][]float64, terms []string) []domain.Topic {
	topics := make([]domain.Topic, len(phi))

	for k, dist := range phi {
		order := make([]int, len(dist))
		for i := range order {
			order[i] = i
		}

		sort.SliceStable(order, func(a, b int) bool {
			return dist[order[a]] > dist[order[b]]
		})

		t := domain.Topic{
			ID:       k,
			Keywords: make([]string, len(order)),
			Weights:  make([]float64, len(order)),
		}

		for rank, w := range order {
			t.Keywords[rank] = terms[w]
			t.Weights[rank] = dist[w]
		}

		if len(t.Keywords) > 0 {
			t.Label = t.Keywords[0]
		}

		topics[k] = t
	}

	return topics
}
