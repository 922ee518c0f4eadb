// Package report joins the per-item analysis results back onto posts and
// replies and derives the dashboard figures, scores and recommendations.
package report

import (
	"fmt"
	"time"

	"github.com/lueurxax/social-insight/internal/core/domain"
	"github.com/lueurxax/social-insight/internal/process/normalize"
	"github.com/lueurxax/social-insight/internal/process/peaks"
	"github.com/lueurxax/social-insight/internal/process/topics"
)

// Input is everything one aggregation needs. ReplyTokens, Sentiment and Emotion
// are aligned with Replies; Topics assignments are aligned with Posts.
type Input struct {
	Posts           []domain.Post
	Replies         []domain.Reply
	ReplyTokens     [][]string
	Sentiment       []domain.ClassificationResult
	Emotion         []domain.ClassificationResult
	Topics          *topics.Result
	SentimentTopics map[domain.Label][]domain.Topic
	Peaks           *peaks.Result
}

// Report is the full analysis of one dataset snapshot.
type Report struct {
	RunID       string    `json:"run_id,omitempty"`
	Dataset     string    `json:"dataset,omitempty"`
	SnapshotID  string    `json:"snapshot_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Statistics       Statistics               `json:"statistics"`
	EngagementByType []TypeEngagement         `json:"engagement_by_type"`
	EngagementByDay  []DayEngagement          `json:"engagement_by_day"`
	TopHashtags      []normalize.HashtagCount `json:"top_hashtags"`
	Sentiment        LabelSection             `json:"sentiment"`
	Emotion          LabelSection             `json:"emotion"`
	Topics           TopicSection             `json:"topics"`
	PeakHours        *peaks.Result            `json:"peak_hours,omitempty"`
	Score            PerformanceScore         `json:"performance_score"`
	Insights         []Insight                `json:"insights"`
	Recommendations  []Recommendation         `json:"recommendations"`
	PriorityActions  []Recommendation         `json:"priority_actions"`
	DataQuality      DataQuality              `json:"data_quality"`
}

// DataQuality counts rows that could not be joined or parsed cleanly.
type DataQuality struct {
	PostsWithoutID int `json:"posts_without_id"`
	OrphanReplies  int `json:"orphan_replies"`
	RowWarnings    int `json:"row_warnings"`
}

// Config holds the aggregation limits.
type Config struct {
	WordFreqLimit   int
	HashtagLimit    int
	TopPosts        int
	TopicKeywords   int
	PriorityActions int
}

// Aggregator builds reports with a fixed rule table. It is safe for concurrent use.
type Aggregator struct {
	cfg   Config
	rules *RuleSet
}

// NewAggregator creates an Aggregator. Zero limits take their defaults and a nil
// rule set produces no recommendations.
func NewAggregator(cfg Config, rules *RuleSet) *Aggregator {
	if cfg.WordFreqLimit < 1 {
		cfg.WordFreqLimit = defaultWordFreqLimit
	}

	if cfg.HashtagLimit < 1 {
		cfg.HashtagLimit = defaultHashtagLimit
	}

	if cfg.TopPosts < 1 {
		cfg.TopPosts = defaultTopPosts
	}

	if cfg.TopicKeywords < 1 {
		cfg.TopicKeywords = defaultTopicKeywords
	}

	if cfg.PriorityActions < 1 {
		cfg.PriorityActions = defaultPriorityAction
	}

	if rules == nil {
		rules = &RuleSet{}
	}

	return &Aggregator{cfg: cfg, rules: rules}
}

// Aggregate derives the report from already computed stage results. It never
// mutates the input.
func (a *Aggregator) Aggregate(in Input) (*Report, error) {
	j := newJoin(in.Posts, in.Replies)

	rep := &Report{
		GeneratedAt:      time.Now().UTC(),
		Statistics:       statistics(in.Posts, j),
		EngagementByType: engagementByType(in.Posts, j),
		EngagementByDay:  engagementByDay(in.Posts),
		TopHashtags:      topHashtags(in.Posts, a.cfg.HashtagLimit),
		Sentiment:        a.labelSection(domain.SentimentLabels(), in.Sentiment, in.Replies, in.ReplyTokens, j),
		Emotion:          a.labelSection(domain.EmotionLabels(), in.Emotion, in.Replies, in.ReplyTokens, j),
		Topics:           a.topicSection(in.Topics, in.Posts, j),
		PeakHours:        in.Peaks,
		DataQuality: DataQuality{
			PostsWithoutID: j.postsWithoutID,
			OrphanReplies:  j.orphanReplies,
		},
	}

	rep.Sentiment.Topics = trimTopicMap(in.SentimentTopics, a.cfg.TopicKeywords)
	rep.Score = score(rep)
	rep.Insights = insights(rep)

	recs, err := a.rules.Evaluate(observations(rep))
	if err != nil {
		return nil, fmt.Errorf("evaluating recommendation rules: %w", err)
	}

	rep.Recommendations = recs
	rep.PriorityActions = PriorityActions(recs, a.cfg.PriorityActions)

	return rep, nil
}

// join indexes replies by the post they answer.
type join struct {
	repliesByConversation map[string]int
	knownPosts            map[string]struct{}
	postsWithoutID        int
	orphanReplies         int
}

func newJoin(posts []domain.Post, replies []domain.Reply) *join {
	j := &join{
		repliesByConversation: make(map[string]int),
		knownPosts:            make(map[string]struct{}, len(posts)),
	}

	for _, p := range posts {
		id := p.ID()
		if id == "" {
			j.postsWithoutID++
			continue
		}

		j.knownPosts[id] = struct{}{}
	}

	for _, r := range replies {
		j.repliesByConversation[r.ConversationID]++

		if _, ok := j.knownPosts[r.ConversationID]; !ok {
			j.orphanReplies++
		}
	}

	return j
}

// repliesTo returns the number of replies joined to post. Posts without an
// identifier count zero replies.
func (j *join) repliesTo(p domain.Post) int {
	id := p.ID()
	if id == "" {
		return 0
	}

	return j.repliesByConversation[id]
}

// replyEngagement is the reply's own likes and retweets plus the size of the
// conversation it belongs to.
func (j *join) replyEngagement(r domain.Reply) int {
	return r.Likes + r.Retweets + j.repliesByConversation[r.ConversationID]
}
