package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lueurxax/social-insight/internal/core/domain"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
	"github.com/lueurxax/social-insight/internal/process/normalize"
)

// Normalizer turns raw text into tokens.
type Normalizer interface {
	Normalize(raw string) domain.NormalizedText
}

// PostDetail is the drill-down view of one post.
type PostDetail struct {
	Permalink  string                      `json:"permalink"`
	Caption    string                      `json:"caption"`
	Type       domain.PostType             `json:"type"`
	Date       time.Time                   `json:"date"`
	Hashtags   []string                    `json:"hashtags"`
	WordCloud  []domain.WordFrequencyEntry `json:"wordcloud_data"`
	ReplyCount int                         `json:"reply_count"`
	Likes      int                         `json:"likes"`
	Retweets   int                         `json:"retweets"`
}

// BuildPostDetail finds the post by permalink, or by the identifier embedded in
// it, and builds the word cloud of its replies.
func BuildPostDetail(posts []domain.Post, replies []domain.Reply, permalink string, n Normalizer, limit int) (*PostDetail, error) {
	post, ok := findPost(posts, permalink)
	if !ok {
		return nil, fmt.Errorf("%w: post %s", apperrors.ErrNotFound, permalink)
	}

	if limit < 1 {
		limit = defaultWordFreqLimit
	}

	detail := &PostDetail{
		Permalink: post.Permalink,
		Caption:   post.Caption,
		Type:      post.Type,
		Date:      post.Timestamp,
		Hashtags:  normalize.ExtractHashtags(post.Caption),
		WordCloud: []domain.WordFrequencyEntry{},
		Likes:     post.Likes,
		Retweets:  post.Retweets,
	}

	if detail.Hashtags == nil {
		detail.Hashtags = []string{}
	}

	id := post.ID()
	if id == "" {
		return detail, nil
	}

	var docs [][]string

	for _, r := range replies {
		if r.ConversationID != id {
			continue
		}

		detail.ReplyCount++
		docs = append(docs, n.Normalize(r.Text).Tokens)
	}

	detail.WordCloud = WordFrequency(docs, limit)

	return detail, nil
}

func findPost(posts []domain.Post, permalink string) (domain.Post, bool) {
	permalink = strings.TrimSpace(permalink)

	for _, p := range posts {
		if p.Permalink == permalink {
			return p, true
		}
	}

	id := domain.PermalinkID(permalink)
	if id == "" {
		return domain.Post{}, false
	}

	for _, p := range posts {
		if p.ID() == id {
			return p, true
		}
	}

	return domain.Post{}, false
}
