package artifacts

import "errors"

const (
	logFieldVocabulary       = "vocabulary"
	logFieldSentimentClasses = "sentiment_classes"
	logFieldEmotionClasses   = "emotion_classes"

	msgArtifactsLoaded = "pretrained artifacts loaded"
)

var (
	errEmptyVocabulary = errors.New("empty vocabulary")
	errIndexOutOfRange = errors.New("vocabulary index out of range")
	errTooFewClasses   = errors.New("model needs at least two classes")
	errCoefShape       = errors.New("coefficient shape does not match classes")
)
