package topics

import (
	"fmt"
	"math"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// minProbability keeps log-likelihood finite for terms a fold never saw.
const minProbability = 1e-12

// model is a fitted LDA: phi[k][w] is P(w|k) and every row sums to one.
type model struct {
	lda *nlp.LatentDirichletAllocation
	phi [][]float64
}

func (m *Modeler) newLDA(k int, seed int64) *nlp.LatentDirichletAllocation {
	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Iterations = m.cfg.MaxIter
	lda.TransformationPasses = m.cfg.TransformationPasses
	lda.BatchSize = m.cfg.BatchSize
	lda.Processes = 1
	lda.Rnd = rand.New(rand.NewSource(uint64(seed)))

	return lda
}

// fit trains on a terms×documents count matrix and returns the per-document mixtures.
func (m *Modeler) fit(k int, seed int64, counts mat.Matrix) (*model, [][]float64, error) {
	lda := m.newLDA(k, seed)

	docsOverTopics, err := lda.FitTransform(counts)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting lda with k=%d: %w", k, err)
	}

	return &model{lda: lda, phi: normalizeRows(lda.Components())}, normalizeColumns(docsOverTopics), nil
}

// infer returns topic mixtures for unseen documents.
func (md *model) infer(counts mat.Matrix) ([][]float64, error) {
	docsOverTopics, err := md.lda.Transform(counts)
	if err != nil {
		return nil, fmt.Errorf("inferring topic mixtures: %w", err)
	}

	return normalizeColumns(docsOverTopics), nil
}

// logLikelihood sums count·log P(w|d) over the bag of one document.
func (md *model) logLikelihood(theta []float64, bag termCounts) float64 {
	var ll float64

	for i, w := range bag.terms {
		var p float64
		for k, share := range theta {
			p += share * md.phi[k][w]
		}

		ll += bag.counts[i] * math.Log(math.Max(p, minProbability))
	}

	return ll
}

// normalizeRows turns a topics×terms matrix into per-topic distributions.
func normalizeRows(a mat.Matrix) [][]float64 {
	r, c := a.Dims()
	out := make([][]float64, r)

	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = a.At(i, j)
		}

		out[i] = normalize(row)
	}

	return out
}

// normalizeColumns turns a topics×documents matrix into one distribution per document.
func normalizeColumns(a mat.Matrix) [][]float64 {
	r, c := a.Dims()
	out := make([][]float64, c)

	for j := 0; j < c; j++ {
		col := make([]float64, r)
		for i := 0; i < r; i++ {
			col[i] = a.At(i, j)
		}

		out[j] = normalize(col)
	}

	return out
}

// normalize scales v to sum to one; a non-positive sum becomes uniform.
func normalize(v []float64) []float64 {
	var sum float64

	for i, x := range v {
		if x < 0 || math.IsNaN(x) {
			v[i] = 0
			continue
		}

		sum += x
	}

	if sum <= 0 {
		for i := range v {
			v[i] = 1 / float64(len(v))
		}

		return v
	}

	for i := range v {
		v[i] /= sum
	}

	return v
}

// argmax returns the first index holding the largest value.
func argmax(v []float64) int {
	best := 0

	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}

	return best
}
