package dataset

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/social-insight/internal/core/domain"
	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
	"github.com/lueurxax/social-insight/internal/platform/observability"
)

// Snapshot is an immutable, fully materialized dataset. Callers must not modify
// the slices it holds.
type Snapshot struct {
	ID       string
	Name     string
	LoadedAt time.Time
	Posts    []domain.Post
	Replies  []domain.Reply
	Warnings []RowWarning
	Location *time.Location
}

// NewSnapshot wraps already loaded tables.
func NewSnapshot(name string, posts []domain.Post, replies []domain.Reply, loc *time.Location) *Snapshot {
	if loc == nil {
		loc = time.UTC
	}

	return &Snapshot{
		ID:       uuid.NewString(),
		Name:     name,
		LoadedAt: time.Now(),
		Posts:    posts,
		Replies:  replies,
		Location: loc,
	}
}

// Store holds the active snapshot. Swapping is a single atomic pointer store,
// so a reader that took Current keeps a consistent dataset until it finishes.
type Store struct {
	current atomic.Pointer[Snapshot]
	logger  *zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(logger *zerolog.Logger) *Store {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Store{logger: logger}
}

// Current returns the active snapshot or ErrNoSnapshot.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperrors.ErrNoSnapshot
	}

	return snap, nil
}

// Swap activates snap and returns the previously active snapshot, if any.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	prev := s.current.Swap(snap)

	observability.DatasetSwaps.Inc()
	observability.DatasetRows.WithLabelValues(rowsPosts).Set(float64(len(snap.Posts)))
	observability.DatasetRows.WithLabelValues(rowsReplies).Set(float64(len(snap.Replies)))

	s.logger.Info().
		Str(logFieldSnapshot, snap.ID).
		Str(logFieldDataset, snap.Name).
		Int(logFieldPosts, len(snap.Posts)).
		Int(logFieldReplies, len(snap.Replies)).
		Int(logFieldWarnings, len(snap.Warnings)).
		Msg(msgSnapshotActivated)

	return prev
}

// Files locates a post export and a reply export on disk.
type Files struct {
	Name        string
	PostsPath   string
	RepliesPath string
	Location    *time.Location
}

// Load reads both exports into a new snapshot.
func (f Files) Load() (*Snapshot, error) {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}

	posts, postWarnings, err := readFile(f.PostsPath, func(file *os.File) ([]domain.Post, []RowWarning, error) {
		return ReadPosts(file, loc)
	})
	if err != nil {
		return nil, err
	}

	replies, replyWarnings, err := readFile(f.RepliesPath, func(file *os.File) ([]domain.Reply, []RowWarning, error) {
		return ReadReplies(file, loc)
	})
	if err != nil {
		return nil, err
	}

	snap := NewSnapshot(f.Name, posts, replies, loc)
	snap.Warnings = append(postWarnings, replyWarnings...)

	return snap, nil
}

// ModTime returns the latest modification time of the two exports.
func (f Files) ModTime() (time.Time, error) {
	var latest time.Time

	for _, path := range []string{f.PostsPath, f.RepliesPath} {
		info, err := os.Stat(path)
		if err != nil {
			return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}

	return latest, nil
}

func readFile[T any](path string, read func(*os.File) ([]T, []RowWarning, error)) ([]T, []RowWarning, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	rows, warnings, err := read(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return rows, warnings, nil
}
