// Package vectorize maps normalized text onto the frozen pretrained TF-IDF space.
package vectorize

import (
	"math"
	"sort"
	"strings"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/lueurxax/social-insight/internal/core/artifacts"
)

// Vectorizer weights raw term counts by inverse document frequency and
// scales each row to unit length. Terms outside the vocabulary are ignored.
type Vectorizer struct {
	terms map[string]int
	idf   []float64
}

// New wraps a loaded vocabulary. The vocabulary is read, never written.
func New(vocab *artifacts.Vocabulary) *Vectorizer {
	return &Vectorizer{terms: vocab.Terms, idf: vocab.IDF}
}

// Dim is the number of columns in every produced vector.
func (v *Vectorizer) Dim() int {
	return len(v.idf)
}

// Vectorize returns one row per text. An empty slice yields a 0×Dim matrix.
func (v *Vectorizer) Vectorize(texts []string) *Matrix {
	rows := make([]*sparse.Vector, len(texts))
	for i, text := range texts {
		rows[i] = v.Transform(text)
	}

	return &Matrix{rows: rows, dim: v.Dim()}
}

// Transform vectorizes a single text. Empty text yields an all-zero vector.
func (v *Vectorizer) Transform(text string) *sparse.Vector {
	counts := make(map[int]float64)

	for _, tok := range strings.Fields(text) {
		if idx, ok := v.terms[tok]; ok {
			counts[idx]++
		}
	}

	ind := make([]int, 0, len(counts))
	for idx := range counts {
		ind = append(ind, idx)
	}

	sort.Ints(ind)

	data := make([]float64, len(ind))

	var norm float64

	for i, idx := range ind {
		data[i] = counts[idx] * v.idf[idx]
		norm += data[i] * data[i]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range data {
			data[i] /= norm
		}
	}

	return sparse.NewVector(v.Dim(), ind, data)
}

// Matrix is an n×d row-sparse matrix of document vectors.
type Matrix struct {
	rows []*sparse.Vector
	dim  int
}

var _ mat.Matrix = (*Matrix)(nil)

// Dims returns the number of documents and the vector dimension.
func (m *Matrix) Dims() (r, c int) {
	return len(m.rows), m.dim
}

// At returns the weight of term j in document i.
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i].AtVec(j)
}

// T returns the transpose.
func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns the vector of document i.
func (m *Matrix) Row(i int) mat.Vector {
	return m.rows[i]
}

// Len is the number of documents.
func (m *Matrix) Len() int {
	return len(m.rows)
}
