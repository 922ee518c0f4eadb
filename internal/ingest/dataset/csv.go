// Package dataset reads scraped post and reply exports and holds the active
// snapshot that analysis requests read from.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lueurxax/social-insight/internal/core/domain"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

// Post export columns.
const (
	colAccount   = "account"
	colType      = "type"
	colCaption   = "caption"
	colDate      = "date"
	colLikes     = "likes"
	colReplies   = "replies"
	colRetweets  = "retweets"
	colPermalink = "permalink"
)

// Reply export columns.
const (
	colReplyID        = "id_str"
	colConversationID = "conversation_id_str"
	colCreatedAt      = "created_at"
	colAuthorID       = "user_id_str"
	colFullText       = "full_text"
	colFavoriteCount  = "favorite_count"
	colRetweetCount   = "retweet_count"
)

// maxCount caps parsed counts; larger values are treated as corrupt cells.
const maxCount = math.MaxInt32

// maxHeaderScan bounds how many preamble rows an export may carry before its header.
const maxHeaderScan = 10

// RowWarning records a value that could not be parsed. The row is kept with a zero value.
type RowWarning struct {
	Line    int    `json:"line"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("line %d column %s: %s", w.Line, w.Column, w.Message)
}

type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

// openTable locates the header row, skipping up to maxHeaderScan preamble rows
// that do not contain the required column.
func openTable(r io.Reader, required string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	for line := 1; line <= maxHeaderScan; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}

		cols := make(map[string]int, len(rec))
		for i, name := range rec {
			cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
		}

		if _, ok := cols[required]; ok {
			return &table{reader: cr, columns: cols, line: line}, nil
		}
	}

	return nil, fmt.Errorf("%w: header with column %q not found", apperrors.ErrInvalidInput, required)
}

// next returns the next record, or io.EOF.
func (t *table) next() ([]string, error) {
	rec, err := t.reader.Read()
	t.line++

	if err != nil {
		return nil, err //nolint:wrapcheck // io.EOF must stay comparable
	}

	return rec, nil
}

func (t *table) str(rec []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(rec) {
		return ""
	}

	return strings.TrimSpace(rec[i])
}

func (t *table) count(rec []string, col string, warnings *[]RowWarning) int {
	raw := t.str(rec, col)
	if raw == "" {
		return 0
	}

	n, err := parseCount(raw)
	if err != nil {
		*warnings = append(*warnings, RowWarning{Line: t.line, Column: col, Message: err.Error()})
		return 0
	}

	return n
}

func (t *table) timestamp(rec []string, col string, loc *time.Location, warnings *[]RowWarning) time.Time {
	raw := t.str(rec, col)
	if raw == "" {
		return time.Time{}
	}

	ts, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		*warnings = append(*warnings, RowWarning{Line: t.line, Column: col, Message: err.Error()})
		return time.Time{}
	}

	return ts
}

// parseCount accepts plain integers, thousands separators, floats written by
// spreadsheets ("12.0") and abbreviated counts ("1.2K", "3M").
func parseCount(raw string) (int, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))

	mult := 1.0

	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing count %q: %w", raw, err)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite count %q", apperrors.ErrInvalidInput, raw)
	}

	if f < 0 {
		return 0, fmt.Errorf("%w: negative count %q", apperrors.ErrInvalidInput, raw)
	}

	v := f*mult + 0.5
	if v > maxCount {
		return 0, fmt.Errorf("%w: count %q out of range", apperrors.ErrInvalidInput, raw)
	}

	return int(v), nil
}

// ReadPosts parses a post export. Timestamps without a zone are read in loc.
func ReadPosts(r io.Reader, loc *time.Location) ([]domain.Post, []RowWarning, error) {
	t, err := openTable(r, colPermalink)
	if err != nil {
		return nil, nil, err
	}

	var (
		posts    []domain.Post
		warnings []RowWarning
	)

	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("reading posts line %d: %w", t.line, err)
		}

		if isBlank(rec) {
			continue
		}

		posts = append(posts, domain.Post{
			Account:   t.str(rec, colAccount),
			Type:      domain.ParsePostType(t.str(rec, colType)),
			Caption:   t.str(rec, colCaption),
			Timestamp: t.timestamp(rec, colDate, loc, &warnings),
			Likes:     t.count(rec, colLikes, &warnings),
			Replies:   t.count(rec, colReplies, &warnings),
			Retweets:  t.count(rec, colRetweets, &warnings),
			Permalink: t.str(rec, colPermalink),
		})
	}

	return posts, warnings, nil
}

// ReadReplies parses a reply export.
func ReadReplies(r io.Reader, loc *time.Location) ([]domain.Reply, []RowWarning, error) {
	t, err := openTable(r, colFullText)
	if err != nil {
		return nil, nil, err
	}

	var (
		replies  []domain.Reply
		warnings []RowWarning
	)

	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("reading replies line %d: %w", t.line, err)
		}

		if isBlank(rec) {
			continue
		}

		replies = append(replies, domain.Reply{
			ID:             t.str(rec, colReplyID),
			ConversationID: t.str(rec, colConversationID),
			CreatedAt:      t.timestamp(rec, colCreatedAt, loc, &warnings),
			AuthorID:       t.str(rec, colAuthorID),
			Text:           t.str(rec, colFullText),
			Likes:          t.count(rec, colFavoriteCount, &warnings),
			Retweets:       t.count(rec, colRetweetCount, &warnings),
		})
	}

	return replies, warnings, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
