// Package normalize turns raw post and reply text into the canonical token form
// shared by the vectorizer, the topic modeler and the word-frequency tables.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

const (
	// DefaultMinTokenLen drops short fillers such as "yg", "gk" and "dg".
	DefaultMinTokenLen = 3

	maxRepeat = 2
)

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	camelPattern   = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
)

// Normalizer cleans raw text. The zero value is not usable, use New.
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	minTokenLen int
	blocklist   map[string]struct{}
}

// Option configures a Normalizer.
type Option func(*options)

type options struct {
	minTokenLen int
	extra       []string
}

// WithMinTokenLen sets the shortest token that survives filtering.
func WithMinTokenLen(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minTokenLen = n
		}
	}
}

// WithExtraStopwords adds words to the stopword set.
func WithExtraStopwords(words ...string) Option {
	return func(o *options) {
		o.extra = append(o.extra, words...)
	}
}

// New builds a Normalizer with the built-in stopword and profanity lists.
func New(opts ...Option) *Normalizer {
	o := options{minTokenLen: DefaultMinTokenLen}
	for _, opt := range opts {
		opt(&o)
	}

	return &Normalizer{
		minTokenLen: o.minTokenLen,
		blocklist:   buildBlocklist(o.extra),
	}
}

// Normalize never fails. Applying it to its own output returns the same result.
func (n *Normalizer) Normalize(raw string) domain.NormalizedText {
	text := norm.NFKC.String(html.UnescapeString(raw))
	text = replaceEmoji(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = hashtagPattern.ReplaceAllStringFunc(text, n.unwrapHashtag)
	text = norm.NFKC.String(lowerCaser().String(text))
	text = stripNoise(text)
	text = collapseRepeats(text, maxRepeat)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))

	for _, tok := range fields {
		if n.keep(tok) {
			tokens = append(tokens, tok)
		}
	}

	return domain.NormalizedText{
		Text:   strings.Join(tokens, " "),
		Tokens: tokens,
	}
}

// NormalizeAll normalizes a batch, preserving order.
func (n *Normalizer) NormalizeAll(raw []string) []domain.NormalizedText {
	out := make([]domain.NormalizedText, len(raw))
	for i, s := range raw {
		out[i] = n.Normalize(s)
	}

	return out
}

// IsStopword reports whether the token is removed by the blocklist.
func (n *Normalizer) IsStopword(token string) bool {
	_, ok := n.blocklist[token]
	return ok
}

func (n *Normalizer) keep(tok string) bool {
	if len([]rune(tok)) < n.minTokenLen {
		return false
	}

	return !n.IsStopword(tok)
}

func lowerCaser() cases.Caser {
	return cases.Lower(language.Indonesian)
}

// unwrapHashtag drops the marker and splits CamelCase tags into words. A tag
// whose whole body is blocked is removed before splitting, so #IndiHome goes the
// same way as indihome.
func (n *Normalizer) unwrapHashtag(tag string) string {
	body := strings.TrimPrefix(tag, "#")
	if n.IsStopword(lowerCaser().String(body)) {
		return " "
	}

	return " " + camelPattern.ReplaceAllString(body, "$1 $2") + " "
}

// stripNoise keeps letters, digits and combining marks; everything else becomes a space.
func stripNoise(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
			continue
		}

		b.WriteByte(' ')
	}

	return b.String()
}

// collapseRepeats shortens runs of the same rune to at most limit occurrences.
func collapseRepeats(text string, limit int) string {
	var (
		b    strings.Builder
		prev rune
		run  int
	)

	b.Grow(len(text))

	for i, r := range text {
		if i > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}

		if run <= limit {
			b.WriteRune(r)
		}
	}

	return b.String()
}
