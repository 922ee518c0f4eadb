// Package artifacts loads the pretrained vectorizer and classifier weights.
//
// Artifacts are read once at startup. A missing or malformed artifact is an
// ErrArtifactLoad and the caller is expected to refuse to start. The returned
// Store is never mutated afterwards and may be shared by concurrent requests.
package artifacts

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

const gzipSuffix = ".gz"

// Files names the artifact files inside the artifact filesystem.
type Files struct {
	Sentiment  string
	Emotion    string
	Vectorizer string
}

// Vocabulary is a frozen term-weighting vocabulary.
type Vocabulary struct {
	Terms map[string]int `json:"vocabulary"`
	IDF   []float64      `json:"idf"`
}

// Dim is the vector dimension produced with this vocabulary.
func (v *Vocabulary) Dim() int {
	return len(v.IDF)
}

// LinearModel holds one-vs-rest hyperplanes. A binary model has a single
// coefficient row that scores the second class against the first.
type LinearModel struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Binary reports whether the model stores one hyperplane for two classes.
func (m *LinearModel) Binary() bool {
	return len(m.Classes) == 2 && len(m.Coef) == 1
}

// Dim is the expected input vector dimension.
func (m *LinearModel) Dim() int {
	if len(m.Coef) == 0 {
		return 0
	}

	return len(m.Coef[0])
}

// Store is the set of loaded artifacts.
type Store struct {
	Vocabulary *Vocabulary
	Sentiment  *LinearModel
	Emotion    *LinearModel
}

// Load reads and validates every artifact. The first failure aborts loading.
func Load(fsys fs.FS, files Files, logger *zerolog.Logger) (*Store, error) {
	vocab := &Vocabulary{}
	if err := readJSON(fsys, files.Vectorizer, vocab); err != nil {
		return nil, err
	}

	if err := vocab.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrArtifactLoad, files.Vectorizer, err)
	}

	sentiment, err := loadModel(fsys, files.Sentiment, vocab.Dim())
	if err != nil {
		return nil, err
	}

	emotion, err := loadModel(fsys, files.Emotion, vocab.Dim())
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int(logFieldVocabulary, vocab.Dim()).
		Strs(logFieldSentimentClasses, sentiment.Classes).
		Strs(logFieldEmotionClasses, emotion.Classes).
		Msg(msgArtifactsLoaded)

	return &Store{Vocabulary: vocab, Sentiment: sentiment, Emotion: emotion}, nil
}

func loadModel(fsys fs.FS, name string, dim int) (*LinearModel, error) {
	model := &LinearModel{}
	if err := readJSON(fsys, name, model); err != nil {
		return nil, err
	}

	if err := model.validate(dim); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrArtifactLoad, name, err)
	}

	return model, nil
}

func readJSON(fsys fs.FS, name string, target any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", apperrors.ErrArtifactLoad, name, err)
	}
	defer f.Close()

	var r io.Reader = f

	if strings.HasSuffix(name, gzipSuffix) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%w: gunzip %s: %w", apperrors.ErrArtifactLoad, name, err)
		}
		defer gz.Close()

		r = gz
	}

	if err := json.NewDecoder(r).Decode(target); err != nil {
		return fmt.Errorf("%w: decode %s: %w", apperrors.ErrArtifactLoad, name, err)
	}

	return nil
}

func (v *Vocabulary) validate() error {
	if len(v.IDF) == 0 || len(v.Terms) == 0 {
		return errEmptyVocabulary
	}

	for term, idx := range v.Terms {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("%w: term %q index %d", errIndexOutOfRange, term, idx)
		}
	}

	return nil
}

func (m *LinearModel) validate(dim int) error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("%w: %d classes", errTooFewClasses, len(m.Classes))
	}

	if !m.Binary() && len(m.Coef) != len(m.Classes) {
		return fmt.Errorf("%w: %d coefficient rows for %d classes", errCoefShape, len(m.Coef), len(m.Classes))
	}

	if len(m.Intercept) != len(m.Coef) {
		return fmt.Errorf("%w: %d intercepts for %d rows", errCoefShape, len(m.Intercept), len(m.Coef))
	}

	for i, row := range m.Coef {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d weights, vocabulary has %d", apperrors.ErrShapeMismatch, i, len(row), dim)
		}
	}

	return nil
}
