package domain

// Label is a classifier output class.
type Label string

// Sentiment labels.
const (
	SentimentPositive Label = "positive"
	SentimentNegative Label = "negative"
	SentimentNeutral  Label = "neutral"
)

// Emotion labels.
const (
	EmotionJoy      Label = "joy"
	EmotionAnger    Label = "anger"
	EmotionSadness  Label = "sadness"
	EmotionFear     Label = "fear"
	EmotionSurprise Label = "surprise"
	EmotionDisgust  Label = "disgust"
	EmotionNeutral  Label = "neutral"
)

// FallbackLabel is assigned to texts with no surviving tokens.
const FallbackLabel Label = "neutral"

// LabelSet is an ordered, closed set of labels.
type LabelSet []Label

// Contains reports whether l belongs to the set.
func (s LabelSet) Contains(l Label) bool {
	for _, x := range s {
		if x == l {
			return true
		}
	}

	return false
}

// SentimentLabels returns the sentiment label set in report order.
func SentimentLabels() LabelSet {
	return LabelSet{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// EmotionLabels returns the emotion label set in report order.
func EmotionLabels() LabelSet {
	return LabelSet{EmotionJoy, EmotionAnger, EmotionSadness, EmotionFear, EmotionSurprise, EmotionDisgust, EmotionNeutral}
}
