package report

import (
	"sort"
	"time"

	"github.com/lueurxax/social-insight/internal/core/domain"
	"github.com/lueurxax/social-insight/internal/process/topics"
)

// TopicSection is the topic pillar view over post captions.
type TopicSection struct {
	OK         bool                    `json:"ok"`
	Reason     string                  `json:"reason,omitempty"`
	K          int                     `json:"k"`
	Analyzed   int                     `json:"total_posts_analyzed"`
	Topics     []domain.Topic          `json:"topics"`
	Scores     []topics.CandidateScore `json:"k_scores,omitempty"`
	Engagement []TopicEngagement       `json:"topic_engagement"`
	Posts      map[int][]TopicPost     `json:"topic_posts"`
}

// TopicEngagement sums the engagement of posts whose dominant topic is TopicID.
type TopicEngagement struct {
	TopicID  int    `json:"topic_id"`
	Label    string `json:"topic_label"`
	Posts    int    `json:"post_count"`
	Likes    int    `json:"total_likes"`
	Replies  int    `json:"total_replies"`
	Retweets int    `json:"total_retweets"`
	Total    int    `json:"total_engagement"`
}

// TopicPost is a post listed under its dominant topic.
type TopicPost struct {
	Permalink string          `json:"permalink"`
	Caption   string          `json:"caption"`
	Type      domain.PostType `json:"type"`
	Likes     int             `json:"likes"`
	Replies   int             `json:"replies"`
	Retweets  int             `json:"retweets"`
	Strength  float64         `json:"topic_strength"`
	CreatedAt time.Time       `json:"created_at"`
}

func (a *Aggregator) topicSection(res *topics.Result, posts []domain.Post, j *join) TopicSection {
	sec := TopicSection{
		Topics:     []domain.Topic{},
		Engagement: []TopicEngagement{},
		Posts:      map[int][]TopicPost{},
	}

	if res == nil {
		return sec
	}

	sec.OK = res.OK
	sec.Reason = res.Reason
	sec.K = res.K
	sec.Scores = res.Scores
	sec.Topics = trimTopics(res.Topics, a.cfg.TopicKeywords)

	if !res.OK {
		return sec
	}

	sec.Engagement = make([]TopicEngagement, len(res.Topics))
	for i, t := range res.Topics {
		sec.Engagement[i] = TopicEngagement{TopicID: t.ID, Label: t.Label}
	}

	members := make(map[int][]TopicPost, len(res.Topics))

	for i, as := range res.Assignments {
		if as.Topic == domain.NoTopic || as.Topic >= len(sec.Engagement) || i >= len(posts) {
			continue
		}

		sec.Analyzed++

		p := posts[i]
		e := j.post(p)

		te := &sec.Engagement[as.Topic]
		te.Posts++
		te.Likes += e.likes
		te.Replies += e.replies
		te.Retweets += e.retweets
		te.Total += e.total()

		members[as.Topic] = append(members[as.Topic], TopicPost{
			Permalink: p.Permalink,
			Caption:   p.Caption,
			Type:      p.Type,
			Likes:     p.Likes,
			Replies:   e.replies,
			Retweets:  p.Retweets,
			Strength:  as.Strength,
			CreatedAt: p.Timestamp,
		})
	}

	for id, list := range members {
		sort.SliceStable(list, func(x, y int) bool { return list[x].Strength > list[y].Strength })

		if len(list) > a.cfg.TopPosts {
			list = list[:a.cfg.TopPosts]
		}

		sec.Posts[id] = list
	}

	return sec
}

// rankedEngagement returns topic engagement sorted by total, highest first.
// Equal totals keep topic order.
func (s TopicSection) rankedEngagement() []TopicEngagement {
	out := append([]TopicEngagement(nil), s.Engagement...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })

	return out
}

func trimTopics(in []domain.Topic, n int) []domain.Topic {
	out := make([]domain.Topic, len(in))

	for i, t := range in {
		out[i] = t
		out[i].Keywords = t.Top(n)

		if len(t.Weights) > n {
			out[i].Weights = t.Weights[:n]
		}
	}

	return out
}

func trimTopicMap(in map[domain.Label][]domain.Topic, n int) map[domain.Label][]domain.Topic {
	if len(in) == 0 {
		return nil
	}

	out := make(map[domain.Label][]domain.Topic, len(in))
	for label, list := range in {
		out[label] = trimTopics(list, n)
	}

	return out
}
