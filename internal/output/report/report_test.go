package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/social-insight/internal/core/domain"
	"github.com/lueurxax/social-insight/internal/process/normalize"
	"github.com/lueurxax/social-insight/internal/process/peaks"
	"github.com/lueurxax/social-insight/internal/process/topics"
)

func fixturePosts() []domain.Post {
	return []domain.Post{
		{
			Type: domain.PostTypePhoto, Caption: "Promo #IndiHome #Fiber",
			Timestamp: time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC),
			Likes:     100, Retweets: 10, Replies: 5,
			Permalink: "https://www.twitter.com/123/status/1",
		},
		{
			Type: domain.PostTypeVideo, Caption: "Gangguan #IndiHome",
			Timestamp: time.Date(2025, 11, 11, 10, 0, 0, 0, time.UTC),
			Likes:     20, Retweets: 2, Replies: 3,
			Permalink: "https://www.twitter.com/123/status/2",
		},
		{
			Type: domain.PostTypePhoto, Caption: "Info",
			Timestamp: time.Date(2025, 11, 12, 10, 0, 0, 0, time.UTC),
			Likes:     40, Retweets: 4, Replies: 1,
			Permalink: "https://x.com/indihome",
		},
	}
}

func fixtureReplies() []domain.Reply {
	return []domain.Reply{
		{ID: "r1", ConversationID: "1", Text: "internet lemot lemot", Likes: 1},
		{ID: "r2", ConversationID: "1", Text: "internet mati"},
		{ID: "r3", ConversationID: "2", Text: "makasih", Likes: 2, Retweets: 1},
		{ID: "r4", ConversationID: "99", Text: ""},
	}
}

func results(labels ...domain.Label) []domain.ClassificationResult {
	out := make([]domain.ClassificationResult, len(labels))
	for i, l := range labels {
		out[i] = domain.ClassificationResult{ItemID: "r", Label: l}
	}

	out[len(out)-1].Fallback = true

	return out
}

func fixtureInput() Input {
	return Input{
		Posts:       fixturePosts(),
		Replies:     fixtureReplies(),
		ReplyTokens: [][]string{{"internet", "lemot", "lemot"}, {"internet", "mati"}, {"makasih"}, {}},
		Sentiment: results(
			domain.SentimentNegative, domain.SentimentNegative, domain.SentimentPositive, domain.SentimentNeutral,
		),
		Emotion: results(
			domain.EmotionAnger, domain.EmotionAnger, domain.EmotionJoy, domain.EmotionNeutral,
		),
		Topics: &topics.Result{
			OK: true,
			K:  2,
			Topics: []domain.Topic{
				{ID: 0, Label: "promo", Keywords: []string{"promo", "fiber"}, Weights: []float64{0.6, 0.4}},
				{ID: 1, Label: "gangguan", Keywords: []string{"gangguan"}, Weights: []float64{1}},
			},
			Assignments: []domain.TopicAssignment{
				{DocID: "0", Topic: 0, Strength: 0.6},
				{DocID: "1", Topic: 1, Strength: 0.8},
				{DocID: "2", Topic: 0, Strength: 0.9},
			},
		},
		SentimentTopics: map[domain.Label][]domain.Topic{
			domain.SentimentNegative: {{ID: 0, Label: "internet", Keywords: []string{"internet", "lemot"}}},
		},
		Peaks: &peaks.Result{
			OK: true,
			Peaks: []domain.ActivityCluster{
				{ClusterID: 0, Rank: 1, StartHour: 19, EndHour: 21, Hours: []int{19, 20, 21}, Label: "19:00 - 21:00"},
			},
		},
	}
}

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()

	rules, err := DefaultRules()
	require.NoError(t, err)

	return NewAggregator(Config{}, rules)
}

func TestAggregate_Statistics(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(fixtureInput())
	require.NoError(t, err)

	s := rep.Statistics
	assert.Equal(t, 3, s.TotalPosts)
	assert.Equal(t, 3, s.TotalReplies)
	assert.Equal(t, 160, s.TotalLikes)
	assert.Equal(t, 16, s.TotalRetweets)
	assert.Equal(t, 179, s.TotalEngagement)
	assert.InDelta(t, 59.667, s.AvgEngagement, 1e-3)

	assert.Equal(t, 0, s.DeltaPosts)
	assert.Equal(t, -20, s.DeltaLikes)
	assert.Equal(t, -1, s.DeltaReplies)
	assert.Equal(t, -2, s.DeltaRetweets)
	assert.Equal(t, -23, s.DeltaEngagement)

	assert.Equal(t, DataQuality{PostsWithoutID: 1, OrphanReplies: 1}, rep.DataQuality)
}

func TestAggregate_EngagementGroups(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(fixtureInput())
	require.NoError(t, err)

	assert.Equal(t, []TypeEngagement{
		{Type: domain.PostTypePhoto, Posts: 2, Likes: 140, Replies: 2, Retweets: 14, Total: 156},
		{Type: domain.PostTypeVideo, Posts: 1, Likes: 20, Replies: 1, Retweets: 2, Total: 23},
	}, rep.EngagementByType)

	require.Len(t, rep.EngagementByDay, 7)
	assert.Equal(t, DayEngagement{Day: "Monday", Engagement: 115}, rep.EngagementByDay[0])
	assert.Equal(t, DayEngagement{Day: "Tuesday", Engagement: 25}, rep.EngagementByDay[1])
	assert.Equal(t, DayEngagement{Day: "Wednesday", Engagement: 45}, rep.EngagementByDay[2])
	assert.Equal(t, DayEngagement{Day: "Sunday", Engagement: 0}, rep.EngagementByDay[6])

	assert.Equal(t, []normalize.HashtagCount{{Hashtag: "#IndiHome", Count: 2}, {Hashtag: "#Fiber", Count: 1}}, rep.TopHashtags)
}

func TestAggregate_LabelSections(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(fixtureInput())
	require.NoError(t, err)

	sent := rep.Sentiment
	assert.Equal(t, 4, sent.Total)
	assert.Equal(t, 1, sent.Fallbacks)
	assert.InDelta(t, 50.0, sent.Percent(domain.SentimentNegative), 1e-9)
	assert.InDelta(t, 25.0, sent.Percent(domain.SentimentPositive), 1e-9)
	assert.InDelta(t, 25.0, sent.Percent(domain.SentimentNeutral), 1e-9)

	assert.Equal(t, []LabelEngagement{
		{Label: domain.SentimentPositive, Engagement: 4},
		{Label: domain.SentimentNegative, Engagement: 5},
		{Label: domain.SentimentNeutral, Engagement: 1},
	}, sent.Engagement)

	assert.Equal(t, []domain.WordFrequencyEntry{
		{Term: "internet", Count: 2},
		{Term: "lemot", Count: 2},
		{Term: "mati", Count: 1},
	}, sent.WordFrequency[domain.SentimentNegative])
	assert.Empty(t, sent.WordFrequency[domain.SentimentNeutral])
	assert.Contains(t, sent.Topics, domain.SentimentNegative)

	require.Len(t, rep.Emotion.Distribution, len(domain.EmotionLabels()))
	assert.InDelta(t, 50.0, rep.Emotion.Percent(domain.EmotionAnger), 1e-9)
}

func TestAggregate_Topics(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(fixtureInput())
	require.NoError(t, err)

	sec := rep.Topics
	assert.True(t, sec.OK)
	assert.Equal(t, 3, sec.Analyzed)
	require.Len(t, sec.Engagement, 2)
	assert.Equal(t, 156, sec.Engagement[0].Total)
	assert.Equal(t, 2, sec.Engagement[0].Posts)
	assert.Equal(t, 23, sec.Engagement[1].Total)

	top := sec.Posts[0]
	require.Len(t, top, 2)
	assert.Equal(t, "Info", top[0].Caption)
	assert.Equal(t, "Promo #IndiHome #Fiber", top[1].Caption)
	assert.Equal(t, 2, top[1].Replies)
}

func TestAggregate_ScoreAndRecommendations(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(fixtureInput())
	require.NoError(t, err)

	assert.Equal(t, PerformanceScore{
		Sentiment:  25,
		Emotion:    25,
		Engagement: 50,
		Overall:    32.5,
		Rating:     RatingPoor,
	}, rep.Score)

	ids := make([]string, len(rep.Recommendations))
	for i, r := range rep.Recommendations {
		ids[i] = r.RuleID
	}

	assert.Equal(t, []string{
		"sentiment-negative-critical",
		"emotion-anger-high",
		"sentiment-positive-low",
		"engagement-low-average",
		"topic-top",
		"engagement-type-below-average",
		"timing-peak-hours",
	}, ids)

	assert.Equal(t, "50% of interactions are negative. Immediate action required.", rep.Recommendations[0].Description)
	assert.Equal(t, "Top Performing Topic: promo", rep.Recommendations[4].Title)
	assert.Equal(t, "Low Engagement for video", rep.Recommendations[5].Title)
	assert.Equal(t, "Review and optimize video content strategy", rep.Recommendations[5].Steps[0])
	assert.Equal(t, "Peak activity hours are: 19:00, 20:00, 21:00", rep.Recommendations[6].Description)

	require.Len(t, rep.PriorityActions, 4)
	for _, r := range rep.PriorityActions {
		assert.True(t, r.Priority.Urgent())
	}

	values := make(map[string]string)
	for _, in := range rep.Insights {
		values[in.Title] = in.Value
	}

	assert.Equal(t, map[string]string{
		"Dominant Sentiment": "Negative",
		"Dominant Emotion":   "Anger",
		"Average Engagement": "60",
		"Top Topic":          "promo",
		"Peak Hours":         "19:00 - 21:00",
	}, values)
}

func TestAggregate_EmptyInput(t *testing.T) {
	rep, err := newTestAggregator(t).Aggregate(Input{})
	require.NoError(t, err)

	assert.Zero(t, rep.Statistics.TotalPosts)
	assert.Empty(t, rep.Recommendations)
	assert.Empty(t, rep.PriorityActions)
	assert.Equal(t, RatingPoor, rep.Score.Rating)
	assert.False(t, rep.Topics.OK)
	assert.Len(t, rep.EngagementByDay, 7)
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 33.33, percentage(1, 3), 1e-9)
	assert.InDelta(t, 66.67, percentage(2, 3), 1e-9)
	assert.Zero(t, percentage(1, 0))
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{avg: 250, want: 100},
		{avg: 200, want: 100},
		{avg: 150, want: 75},
		{avg: 60, want: 50},
		{avg: 25, want: 25},
		{avg: 0, want: 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, engagementScore(tt.avg), 1e-9, "avg %v", tt.avg)
	}
}

func TestRating(t *testing.T) {
	assert.Equal(t, RatingExcellent, rating(80))
	assert.Equal(t, RatingGood, rating(79.9))
	assert.Equal(t, RatingFair, rating(40))
	assert.Equal(t, RatingPoor, rating(39.9))
}

func TestWordFrequency_TiesKeepFirstSeenOrder(t *testing.T) {
	got := WordFrequency([][]string{{"b", "a"}, {"c", "a", "b"}}, 2)

	assert.Equal(t, []domain.WordFrequencyEntry{{Term: "b", Count: 2}, {Term: "a", Count: 2}}, got)
}

type fieldsNormalizer struct{}

func (fieldsNormalizer) Normalize(raw string) domain.NormalizedText {
	tokens := strings.Fields(strings.ToLower(raw))

	return domain.NormalizedText{Text: strings.Join(tokens, " "), Tokens: tokens}
}

func TestBuildPostDetail(t *testing.T) {
	posts := fixturePosts()
	replies := fixtureReplies()

	detail, err := BuildPostDetail(posts, replies, "https://www.twitter.com/123/status/1", fieldsNormalizer{}, 30)
	require.NoError(t, err)

	assert.Equal(t, []string{"IndiHome", "Fiber"}, detail.Hashtags)
	assert.Equal(t, 2, detail.ReplyCount)
	assert.Equal(t, 100, detail.Likes)
	assert.Equal(t, []domain.WordFrequencyEntry{
		{Term: "internet", Count: 2},
		{Term: "lemot", Count: 2},
		{Term: "mati", Count: 1},
	}, detail.WordCloud)

	byID, err := BuildPostDetail(posts, replies, "https://x.com/IndiHome/status/2", fieldsNormalizer{}, 30)
	require.NoError(t, err)
	assert.Equal(t, "Gangguan #IndiHome", byID.Caption)
	assert.Equal(t, 1, byID.ReplyCount)

	noID, err := BuildPostDetail(posts, replies, "https://x.com/indihome", fieldsNormalizer{}, 30)
	require.NoError(t, err)
	assert.Zero(t, noID.ReplyCount)
	assert.Empty(t, noID.WordCloud)

	_, err = BuildPostDetail(posts, replies, "https://x.com/IndiHome/status/404", fieldsNormalizer{}, 30)
	assert.Error(t, err)
}
