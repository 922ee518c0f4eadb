package report

import (
	"sort"
	"time"

	"github.com/lueurxax/social-insight/internal/core/domain"
	"github.com/lueurxax/social-insight/internal/process/normalize"
)

// Statistics are dataset totals plus the change of the latest post against
// the mean of the posts before it.
type Statistics struct {
	TotalPosts      int     `json:"total_posts"`
	TotalReplies    int     `json:"total_replies"`
	TotalLikes      int     `json:"total_likes"`
	TotalRetweets   int     `json:"total_retweets"`
	TotalEngagement int     `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement_per_post"`

	// DeltaPosts is always 0: each post counts once, so the last post never
	// differs from the mean post count. It is kept so every total has a delta.
	DeltaPosts      int `json:"delta_posts"`
	DeltaReplies    int `json:"delta_replies"`
	DeltaLikes      int `json:"delta_likes"`
	DeltaRetweets   int `json:"delta_retweets"`
	DeltaEngagement int `json:"delta_engagement"`
}

// TypeEngagement sums engagement of the posts of one type.
type TypeEngagement struct {
	Type     domain.PostType `json:"type"`
	Posts    int             `json:"posts"`
	Likes    int             `json:"likes"`
	Replies  int             `json:"replies"`
	Retweets int             `json:"retweets"`
	Total    int             `json:"total"`
}

// DayEngagement sums the reported engagement of posts published on one weekday.
type DayEngagement struct {
	Day        string `json:"day"`
	Engagement int    `json:"engagement"`
}

// LabelEngagement sums reply engagement for one classifier label.
type LabelEngagement struct {
	Label      domain.Label `json:"label"`
	Engagement int          `json:"engagement"`
}

type postEngagement struct {
	likes, replies, retweets int
}

func (e postEngagement) total() int {
	return e.likes + e.replies + e.retweets
}

func (j *join) post(p domain.Post) postEngagement {
	return postEngagement{likes: p.Likes, replies: j.repliesTo(p), retweets: p.Retweets}
}

func statistics(posts []domain.Post, j *join) Statistics {
	var s Statistics

	s.TotalPosts = len(posts)

	for _, p := range posts {
		e := j.post(p)
		s.TotalLikes += e.likes
		s.TotalReplies += e.replies
		s.TotalRetweets += e.retweets
	}

	s.TotalEngagement = s.TotalLikes + s.TotalReplies + s.TotalRetweets

	if s.TotalPosts > 0 {
		s.AvgEngagement = float64(s.TotalEngagement) / float64(s.TotalPosts)
	}

	if len(posts) < 2 {
		return s
	}

	ordered := append([]domain.Post(nil), posts...)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Timestamp.Before(ordered[b].Timestamp)
	})

	last := j.post(ordered[len(ordered)-1])
	prev := ordered[:len(ordered)-1]

	var sum postEngagement

	for _, p := range prev {
		e := j.post(p)
		sum.likes += e.likes
		sum.replies += e.replies
		sum.retweets += e.retweets
	}

	n := float64(len(prev))

	s.DeltaLikes = int(float64(last.likes) - float64(sum.likes)/n)
	s.DeltaReplies = int(float64(last.replies) - float64(sum.replies)/n)
	s.DeltaRetweets = int(float64(last.retweets) - float64(sum.retweets)/n)
	s.DeltaEngagement = int(float64(last.total()) - float64(sum.total())/n)

	return s
}

// engagementByType groups posts by type, sorted by type name. Replies are the
// joined reply rows, not the scraper's reply column.
func engagementByType(posts []domain.Post, j *join) []TypeEngagement {
	byType := make(map[domain.PostType]*TypeEngagement)

	for _, p := range posts {
		te, ok := byType[p.Type]
		if !ok {
			te = &TypeEngagement{Type: p.Type}
			byType[p.Type] = te
		}

		e := j.post(p)
		te.Posts++
		te.Likes += e.likes
		te.Replies += e.replies
		te.Retweets += e.retweets
		te.Total += e.total()
	}

	out := make([]TypeEngagement, 0, len(byType))
	for _, te := range byType {
		out = append(out, *te)
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Type < out[b].Type })

	return out
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// engagementByDay always lists all seven days starting on Monday.
func engagementByDay(posts []domain.Post) []DayEngagement {
	totals := make(map[time.Weekday]int, len(weekdays))

	for _, p := range posts {
		if p.Timestamp.IsZero() {
			continue
		}

		totals[p.Timestamp.Weekday()] += p.Engagement()
	}

	out := make([]DayEngagement, len(weekdays))
	for i, d := range weekdays {
		out[i] = DayEngagement{Day: d.String(), Engagement: totals[d]}
	}

	return out
}

func topHashtags(posts []domain.Post, limit int) []normalize.HashtagCount {
	captions := make([]string, len(posts))
	for i, p := range posts {
		captions[i] = p.Caption
	}

	return normalize.TopHashtags(captions, limit)
}
