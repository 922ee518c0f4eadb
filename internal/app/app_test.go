package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/social-insight/internal/core/artifacts"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
	"github.com/lueurxax/social-insight/internal/platform/config"
)

const testPostsCSV = `Account,Type,Caption,Date,Likes,Replies,Retweets,Permalink
IndiHomeCare,Photo,"Promo fiber mantap #IndiHome",2025-11-15 10:00:00,120,1,8,https://x.com/IndiHome/status/1
IndiHomeCare,Video,Info gangguan internet Jakarta,2025-11-15 20:00:00,30,2,2,https://x.com/IndiHome/status/2
`

const testRepliesCSV = `id_str,conversation_id_str,created_at,user_id_str,full_text,favorite_count,retweet_count
r1,2,Sat Nov 15 19:00:00 +0000 2025,77,Internet lemot banget,1,0
r2,2,Sat Nov 15 20:00:00 +0000 2025,78,internet mati terus,0,0
r3,1,Sat Nov 15 21:00:00 +0000 2025,79,mantap cepat,2,1
`

func testArtifacts() *artifacts.Store {
	terms := []string{"internet", "lemot", "mati", "mantap", "cepat"}
	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))

	for i, t := range terms {
		index[t] = i
		idf[i] = 1
	}

	model := func(classes ...string) *artifacts.LinearModel {
		return &artifacts.LinearModel{
			Classes: classes,
			Coef: [][]float64{
				{0, 0, 0, 1, 1},
				{1, 1, 1, 0, 0},
				{0, 0, 0, 0, 0},
			},
			Intercept: []float64{0, 0, 0.05},
		}
	}

	return &artifacts.Store{
		Vocabulary: &artifacts.Vocabulary{Terms: index, IDF: idf},
		Sentiment:  model("positive", "negative", "neutral"),
		Emotion:    model("joy", "anger", "neutral"),
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tweet.csv"), []byte(testPostsCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "all_replies.csv"), []byte(testRepliesCSV), 0o600))

	return &config.Config{
		WatchInterval: time.Millisecond,
		Dataset: config.DatasetConfig{
			Dir:         dir,
			PostsFile:   "tweet.csv",
			RepliesFile: "all_replies.csv",
			Timezone:    "UTC",
		},
		Normalizer: config.NormalizerConfig{MinTokenLen: 3},
		Topics: config.TopicConfig{
			KMin:          2,
			KMax:          2,
			CVFolds:       2,
			MaxIter:       5,
			SearchTimeout: time.Minute,
		},
		Peaks:  config.PeakConfig{Eps: 0.5, MinPoints: 2},
		Report: config.ReportConfig{WordFreqLimit: 30, HashtagLimit: 10},
	}
}

func TestRunOnce_WritesReportFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputPath = filepath.Join(t.TempDir(), "report.json")

	a, err := New(cfg, testArtifacts(), nil)
	require.NoError(t, err)

	require.ErrorIs(t, a.Ready(context.Background()), apperrors.ErrNoSnapshot)
	require.NoError(t, a.RunOnce(context.Background()))
	require.NoError(t, a.Ready(context.Background()))

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "tweet.csv", got["dataset"])
	assert.Contains(t, got, "sentiment")
	assert.Contains(t, got, "performance_score")
	assert.Contains(t, got, "recommendations")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.OutputPath), ".report-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRunPostDetail_WritesStdout(t *testing.T) {
	a, err := New(testConfig(t), testArtifacts(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	a.out = &buf

	require.NoError(t, a.RunPostDetail(context.Background(), "https://x.com/IndiHome/status/2"))

	var got struct {
		ReplyCount int `json:"reply_count"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.ReplyCount)

	err = a.RunPostDetail(context.Background(), "https://x.com/IndiHome/status/9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunWatch_AnalyzesOnStart(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputPath = filepath.Join(t.TempDir(), "report.json")

	a, err := New(cfg, testArtifacts(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- a.RunWatch(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(cfg.OutputPath)
		return err == nil
	}, 10*time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNew_InvalidRulesPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.RulesPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, testArtifacts(), nil)
	assert.Error(t, err)
}
