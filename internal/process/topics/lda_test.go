package topics

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

func TestBuildTopics(t *testing.T) {
	phi := [][]float64{{0.1, 0.6, 0.3}, {0.5, 0.25, 0.25}}

	topics := buildTopics(phi, []string{"a", "b", "c"})

	assert.Equal(t, []string{"b", "c", "a"}, topics[0].Keywords)
	assert.Equal(t, "b", topics[0].Label)
	assert.Equal(t, []string{"a", "b", "c"}, topics[1].Keywords)
	assert.Equal(t, []float64{0.5, 0.25, 0.25}, topics[1].Weights)
	assert.Equal(t, []string{"a", "b"}, topics[1].Top(2))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0.25, 0.75}, normalize([]float64{1, 3}))
	assert.Equal(t, []float64{0.5, 0.5}, normalize([]float64{0, 0}))
	assert.Equal(t, []float64{0, 1}, normalize([]float64{-2, 5}))
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 1, argmax([]float64{0.2, 0.5, 0.3}))
	assert.Equal(t, 0, argmax([]float64{0.5, 0.5}))
}

func TestSplitFold(t *testing.T) {
	bags := []termCounts{{total: 0}, {total: 1}, {total: 2}, {total: 3}, {total: 4}}

	train, test := splitFold(bags, 1, 3)

	assert.Equal(t, []termCounts{{total: 1}, {total: 4}}, test)
	assert.Len(t, train, 3)

	train, test = splitFold(bags, 0, 1)
	assert.Len(t, train, 5)
	assert.Len(t, test, 5)
}

func TestLogLikelihood(t *testing.T) {
	md := &model{phi: [][]float64{{0.5, 0.5}, {0.9, 0.1}}}
	bag := termCounts{terms: []int{0, 1}, counts: []float64{2, 1}, total: 3}

	got := md.logLikelihood([]float64{1, 0}, bag)

	assert.InDelta(t, 3*math.Log(0.5), got, 1e-12)
}

func TestTermIndex(t *testing.T) {
	idx := buildTermIndex([][]string{{"b", "a", "b"}, {"c", "a"}})

	assert.Equal(t, []string{"b", "a", "c"}, idx.terms)

	bag := idx.bag([]string{"a", "b", "a", "zzz"})
	assert.Equal(t, []int{1, 0}, bag.terms)
	assert.Equal(t, []float64{2, 1}, bag.counts)
	assert.Equal(t, float64(3), bag.total)

	m := idx.matrix([]termCounts{bag})
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, float64(2), m.At(1, 0))
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	now := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrCacheNotFound)

	assert.NoError(t, cache.Put(ctx, "k", &Result{OK: true, K: 3}))

	got, err := cache.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, 3, got.K)

	now = now.Add(2 * time.Minute)

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrCacheExpired)
	assert.Equal(t, 0, cache.Len())
}
