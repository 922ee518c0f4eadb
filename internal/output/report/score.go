package report

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// PerformanceScore rates the account on a 0..100 scale.
type PerformanceScore struct {
	Sentiment  float64 `json:"sentiment_score"`
	Emotion    float64 `json:"emotion_score"`
	Engagement float64 `json:"engagement_score"`
	Overall    float64 `json:"overall_score"`
	Rating     string  `json:"rating"`
}

const (
	weightSentiment  = 0.35
	weightEmotion    = 0.35
	weightEngagement = 0.30

	engagementExcellent = 200
	engagementGood      = 100
	engagementFair      = 50
)

func score(rep *Report) PerformanceScore {
	var s PerformanceScore

	if rep.Sentiment.Total > 0 {
		v := rep.Sentiment.Percent(domain.SentimentPositive) - rep.Sentiment.Percent(domain.SentimentNegative) + scoreMidline
		s.Sentiment = round(clamp(v), 1)
	}

	if rep.Emotion.Total > 0 {
		negative := rep.Emotion.Percent(domain.EmotionAnger) +
			rep.Emotion.Percent(domain.EmotionSadness) +
			rep.Emotion.Percent(domain.EmotionDisgust)
		s.Emotion = round(clamp(rep.Emotion.Percent(domain.EmotionJoy)-negative+scoreMidline), 1)
	}

	s.Engagement = round(engagementScore(rep.Statistics.AvgEngagement), 1)

	overall := s.Sentiment*weightSentiment + s.Emotion*weightEmotion + s.Engagement*weightEngagement
	s.Overall = round(overall, 1)
	s.Rating = rating(overall)

	return s
}

func engagementScore(avg float64) float64 {
	switch {
	case avg >= engagementExcellent:
		return percentScale
	case avg >= engagementGood:
		return 75
	case avg >= engagementFair:
		return 50
	default:
		return avg / engagementFair * 50
	}
}

func rating(overall float64) string {
	switch {
	case overall >= 80:
		return RatingExcellent
	case overall >= 60:
		return RatingGood
	case overall >= 40:
		return RatingFair
	default:
		return RatingPoor
	}
}

func clamp(v float64) float64 {
	return max(0, min(percentScale, v))
}

// Insight is one headline figure of the report.
type Insight struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Value       string   `json:"value"`
	Percentage  *float64 `json:"percentage,omitempty"`
	Description string   `json:"description"`
}

func insights(rep *Report) []Insight {
	out := make([]Insight, 0, 5)
	title := cases.Title(language.English)

	if d, ok := rep.Sentiment.Dominant(); ok {
		pct := d.Percentage
		out = append(out, Insight{
			Category:    categorySentiment,
			Title:       "Dominant Sentiment",
			Value:       title.String(string(d.Label)),
			Percentage:  &pct,
			Description: fmt.Sprintf("%s%% of interactions", strconv.FormatFloat(pct, 'f', -1, 64)),
		})
	}

	if d, ok := rep.Emotion.Dominant(); ok {
		pct := d.Percentage
		out = append(out, Insight{
			Category:    categoryEmotion,
			Title:       "Dominant Emotion",
			Value:       title.String(string(d.Label)),
			Percentage:  &pct,
			Description: fmt.Sprintf("%s%% of interactions", strconv.FormatFloat(pct, 'f', -1, 64)),
		})
	}

	out = append(out, Insight{
		Category:    categoryEngagement,
		Title:       "Average Engagement",
		Value:       strconv.FormatFloat(rep.Statistics.AvgEngagement, 'f', 0, 64),
		Description: fmt.Sprintf("per post (%s total)", groupThousands(int64(rep.Statistics.TotalEngagement))),
	})

	if ranked := rep.Topics.rankedEngagement(); len(ranked) > 0 {
		out = append(out, Insight{
			Category:    categoryTopics,
			Title:       "Top Topic",
			Value:       ranked[0].Label,
			Description: fmt.Sprintf("%s total engagement", groupThousands(int64(ranked[0].Total))),
		})
	}

	if rep.PeakHours != nil && len(rep.PeakHours.Peaks) > 0 {
		out = append(out, Insight{
			Category:    categoryTiming,
			Title:       "Peak Hours",
			Value:       rep.PeakHours.Peaks[0].Label,
			Description: "Highest activity window",
		})
	}

	return out
}
