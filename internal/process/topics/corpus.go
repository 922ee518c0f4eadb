package topics

import (
	"strings"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// termIndex assigns column ids to terms in first-seen order.
type termIndex struct {
	terms []string
	index map[string]int
}

func buildTermIndex(docs [][]string) *termIndex {
	idx := &termIndex{index: make(map[string]int)}

	for _, doc := range docs {
		for _, tok := range doc {
			if _, ok := idx.index[tok]; ok {
				continue
			}

			idx.index[tok] = len(idx.terms)
			idx.terms = append(idx.terms, tok)
		}
	}

	return idx
}

func (t *termIndex) size() int {
	return len(t.terms)
}

// termCounts holds the bag of words of one document as (term, count) pairs.
type termCounts struct {
	terms  []int
	counts []float64
	total  float64
}

func (t *termIndex) bag(doc []string) termCounts {
	seen := make(map[int]int, len(doc))

	var bag termCounts

	for _, tok := range doc {
		id, ok := t.index[tok]
		if !ok {
			continue
		}

		if pos, ok := seen[id]; ok {
			bag.counts[pos]++
		} else {
			seen[id] = len(bag.terms)
			bag.terms = append(bag.terms, id)
			bag.counts = append(bag.counts, 1)
		}

		bag.total++
	}

	return bag
}

// matrix lays bags out as a terms×documents count matrix, the orientation the LDA expects.
func (t *termIndex) matrix(bags []termCounts) mat.Matrix {
	dok := sparse.NewDOK(t.size(), len(bags))

	for j, bag := range bags {
		for i, term := range bag.terms {
			dok.Set(term, j, bag.counts[i])
		}
	}

	return dok.ToCSR()
}

// distinctDocuments counts documents with different token sequences.
func distinctDocuments(docs [][]string) int {
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		seen[strings.Join(doc, "\x00")] = struct{}{}
	}

	return len(seen)
}
