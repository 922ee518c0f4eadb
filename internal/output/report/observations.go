package report

import (
	"fmt"
	"strings"
)

const peakHoursInDetail = 3

// observations turns a report into the metric values the rule table reads.
func observations(rep *Report) []Observation {
	var obs []Observation

	if rep.Sentiment.Total > 0 {
		for _, d := range rep.Sentiment.Distribution {
			obs = append(obs, Observation{Metric: metricSentimentPrefix + string(d.Label), Subject: string(d.Label), Value: d.Percentage})
		}
	}

	if rep.Emotion.Total > 0 {
		for _, d := range rep.Emotion.Distribution {
			obs = append(obs, Observation{Metric: metricEmotionPrefix + string(d.Label), Subject: string(d.Label), Value: d.Percentage})
		}
	}

	if ranked := rep.Topics.rankedEngagement(); len(ranked) > 0 {
		top := ranked[0]
		obs = append(obs, Observation{Metric: metricTopicTop, Subject: top.Label, Value: float64(top.Total)})

		if len(ranked) > 2 {
			low := ranked[len(ranked)-1]
			obs = append(obs, Observation{Metric: metricTopicBottom, Subject: low.Label, Value: float64(low.Total)})
		}
	}

	if n := len(rep.EngagementByType); n > 0 {
		total := 0
		for _, te := range rep.EngagementByType {
			total += te.Total
		}

		if avg := float64(total) / float64(n); avg > 0 {
			for _, te := range rep.EngagementByType {
				obs = append(obs, Observation{Metric: metricTypeRatio, Subject: string(te.Type), Value: float64(te.Total) / avg})
			}
		}
	}

	if rep.Statistics.TotalPosts > 0 {
		obs = append(obs, Observation{Metric: metricAvgPerPost, Value: rep.Statistics.AvgEngagement})
	}

	if hours := peakHours(rep); len(hours) > 0 {
		shown := hours[:min(len(hours), peakHoursInDetail)]

		labels := make([]string, len(shown))
		for i, h := range shown {
			labels[i] = fmt.Sprintf("%d:00", h)
		}

		obs = append(obs, Observation{Metric: metricPeakHours, Value: float64(len(hours)), Detail: strings.Join(labels, ", ")})
	}

	return obs
}

// peakHours lists the hours of every peak range, most active range first.
func peakHours(rep *Report) []int {
	if rep.PeakHours == nil {
		return nil
	}

	var hours []int
	for _, p := range rep.PeakHours.Peaks {
		hours = append(hours, p.Hours...)
	}

	return hours
}
