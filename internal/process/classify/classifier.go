// Package classify assigns sentiment and emotion labels with pretrained linear models.
package classify

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/lueurxax/social-insight/internal/core/artifacts"
	"github.com/lueurxax/social-insight/internal/core/domain"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

// Kind names what a classifier predicts.
type Kind string

// Classifier kinds.
const (
	KindSentiment Kind = "sentiment"
	KindEmotion   Kind = "emotion"
)

// Classifier is an immutable linear model over TF-IDF vectors.
type Classifier struct {
	kind      Kind
	labels    []domain.Label
	weights   []*mat.VecDense
	intercept []float64
	dim       int
	binary    bool
}

// NewSentiment builds the sentiment classifier. Every class must be a sentiment label.
func NewSentiment(model *artifacts.LinearModel) (*Classifier, error) {
	return newClassifier(KindSentiment, model, domain.SentimentLabels())
}

// NewEmotion builds the emotion classifier. Every class must be an emotion label.
func NewEmotion(model *artifacts.LinearModel) (*Classifier, error) {
	return newClassifier(KindEmotion, model, domain.EmotionLabels())
}

func newClassifier(kind Kind, model *artifacts.LinearModel, allowed domain.LabelSet) (*Classifier, error) {
	labels := make([]domain.Label, len(model.Classes))

	for i, class := range model.Classes {
		label := domain.Label(class)
		if !allowed.Contains(label) {
			return nil, fmt.Errorf("%w: %s model: %w %q", apperrors.ErrArtifactLoad, kind, apperrors.ErrUnknownLabel, class)
		}

		labels[i] = label
	}

	weights := make([]*mat.VecDense, len(model.Coef))
	for i, row := range model.Coef {
		weights[i] = mat.NewVecDense(len(row), append([]float64(nil), row...))
	}

	return &Classifier{
		kind:      kind,
		labels:    labels,
		weights:   weights,
		intercept: append([]float64(nil), model.Intercept...),
		dim:       model.Dim(),
		binary:    model.Binary(),
	}, nil
}

// Kind returns what the classifier predicts.
func (c *Classifier) Kind() Kind {
	return c.kind
}

// Dim is the expected vector length.
func (c *Classifier) Dim() int {
	return c.dim
}

// Labels returns the classes the model can emit.
func (c *Classifier) Labels() []domain.Label {
	return append([]domain.Label(nil), c.labels...)
}

// Classify returns the highest-scoring label. An all-zero vector, which is what
// text without known tokens produces, gets the fallback label.
func (c *Classifier) Classify(v mat.Vector) (domain.Label, error) {
	if v.Len() != c.dim {
		return domain.FallbackLabel, fmt.Errorf("%s: %w: got %d, want %d", c.kind, apperrors.ErrShapeMismatch, v.Len(), c.dim)
	}

	if isZero(v) {
		return domain.FallbackLabel, nil
	}

	if c.binary {
		if c.score(0, v) > 0 {
			return c.labels[1], nil
		}

		return c.labels[0], nil
	}

	best := 0
	bestScore := c.score(0, v)

	for i := 1; i < len(c.weights); i++ {
		if s := c.score(i, v); s > bestScore {
			best, bestScore = i, s
		}
	}

	return c.labels[best], nil
}

func (c *Classifier) score(row int, v mat.Vector) float64 {
	return sparse.Dot(c.weights[row], v) + c.intercept[row]
}

func isZero(v mat.Vector) bool {
	if sv, ok := v.(*sparse.Vector); ok {
		zero := true

		sv.DoNonZero(func(_, _ int, x float64) {
			if x != 0 {
				zero = false
			}
		})

		return zero
	}

	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0 {
			return false
		}
	}

	return true
}
