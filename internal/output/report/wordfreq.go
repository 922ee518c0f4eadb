package report

import (
	"sort"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// wordCounter counts tokens and remembers the order terms were first seen in.
type wordCounter struct {
	counts map[string]int
	order  []string
}

func newWordCounter() *wordCounter {
	return &wordCounter{counts: make(map[string]int)}
}

func (w *wordCounter) add(tokens []string) {
	for _, t := range tokens {
		if _, ok := w.counts[t]; !ok {
			w.order = append(w.order, t)
		}

		w.counts[t]++
	}
}

// top returns the limit most frequent terms; equal counts keep first-seen order.
func (w *wordCounter) top(limit int) []domain.WordFrequencyEntry {
	out := make([]domain.WordFrequencyEntry, len(w.order))
	for i, t := range w.order {
		out[i] = domain.WordFrequencyEntry{Term: t, Count: w.counts[t]}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// WordFrequency counts tokens over documents and returns the top limit terms.
func WordFrequency(docs [][]string, limit int) []domain.WordFrequencyEntry {
	wc := newWordCounter()
	for _, d := range docs {
		wc.add(d)
	}

	return wc.top(limit)
}
