package classify

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// Rows is a row-addressable set of document vectors.
type Rows interface {
	Len() int
	Row(i int) mat.Vector
}

// Batch is the outcome of classifying a set of documents.
type Batch struct {
	Results   []domain.ClassificationResult
	Fallbacks int
	Errors    int
}

// Labels returns the label of every row in order.
func (b Batch) Labels() []domain.Label {
	out := make([]domain.Label, len(b.Results))
	for i, r := range b.Results {
		out[i] = r.Label
	}

	return out
}

// ClassifyRows labels every row. A row that cannot be classified keeps the
// fallback label and records its error; the remaining rows are still classified.
func (c *Classifier) ClassifyRows(ids []string, rows Rows) Batch {
	n := rows.Len()
	batch := Batch{Results: make([]domain.ClassificationResult, n)}

	for i := 0; i < n; i++ {
		res := domain.ClassificationResult{Label: domain.FallbackLabel}
		if i < len(ids) {
			res.ItemID = ids[i]
		}

		vec := rows.Row(i)

		label, err := c.Classify(vec)

		switch {
		case err != nil:
			res.Err = err.Error()
			res.Fallback = true
			batch.Errors++
		case vec.Len() == c.dim && isZero(vec):
			res.Fallback = true
			batch.Fallbacks++
		default:
			res.Label = label
		}

		batch.Results[i] = res
	}

	return batch
}
