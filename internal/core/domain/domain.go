package domain

import (
	"regexp"
	"strings"
	"time"
)

// PostType is the media kind of an account post as reported by the scraper.
type PostType string

// Post types.
const (
	PostTypePhoto       PostType = "photo"
	PostTypeVideo       PostType = "video"
	PostTypeLink        PostType = "link"
	PostTypeAnimatedGIF PostType = "animated_gif"
	PostTypeStatus      PostType = "status"
	PostTypeOriginal    PostType = "original"
	PostTypeReply       PostType = "reply"
	PostTypeRetweet     PostType = "retweet"
	PostTypeUnknown     PostType = "unknown"
)

var knownPostTypes = map[string]PostType{
	string(PostTypePhoto):       PostTypePhoto,
	string(PostTypeVideo):       PostTypeVideo,
	string(PostTypeLink):        PostTypeLink,
	string(PostTypeAnimatedGIF): PostTypeAnimatedGIF,
	"animated gif":              PostTypeAnimatedGIF,
	"gif":                       PostTypeAnimatedGIF,
	string(PostTypeStatus):      PostTypeStatus,
	"text":                      PostTypeStatus,
	string(PostTypeOriginal):    PostTypeOriginal,
	string(PostTypeReply):       PostTypeReply,
	string(PostTypeRetweet):     PostTypeRetweet,
}

// ParsePostType maps a scraper type column to a PostType.
// Unrecognised values map to PostTypeUnknown.
func ParsePostType(s string) PostType {
	if t, ok := knownPostTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}

	return PostTypeUnknown
}

// Post is one item published by the analysed account.
type Post struct {
	Account   string
	Type      PostType
	Caption   string
	Timestamp time.Time
	Likes     int
	Replies   int
	Retweets  int
	Permalink string
}

var (
	statusIDPattern   = regexp.MustCompile(`/status/(\d+)`)
	trailingIDPattern = regexp.MustCompile(`/(\d+)/?$`)
)

// ID returns the numeric post identifier embedded in the permalink.
// It returns an empty string when the permalink carries no identifier.
func (p Post) ID() string {
	return PermalinkID(p.Permalink)
}

// Engagement is likes plus retweets plus the reported reply count.
func (p Post) Engagement() int {
	return p.Likes + p.Retweets + p.Replies
}

// PermalinkID extracts the numeric identifier from a post permalink.
func PermalinkID(permalink string) string {
	if m := statusIDPattern.FindStringSubmatch(permalink); m != nil {
		return m[1]
	}

	if m := trailingIDPattern.FindStringSubmatch(strings.TrimSpace(permalink)); m != nil {
		return m[1]
	}

	return ""
}

// Reply is an audience reply attached to a post through its conversation id.
type Reply struct {
	ID             string
	ConversationID string
	CreatedAt      time.Time
	AuthorID       string
	Text           string
	Likes          int
	Retweets       int
}

// NormalizedText is the cleaned form of a raw text used by every downstream stage.
type NormalizedText struct {
	Text   string
	Tokens []string
}

// Empty reports whether no tokens survived normalisation.
func (n NormalizedText) Empty() bool {
	return len(n.Tokens) == 0
}
