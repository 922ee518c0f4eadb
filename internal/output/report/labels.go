package report

import (
	"math"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// LabelShare is the number and share of items carrying one label.
type LabelShare struct {
	Label      domain.Label `json:"label"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

// LabelSection summarises one classifier over the reply table.
type LabelSection struct {
	Total         int                                         `json:"total"`
	Fallbacks     int                                         `json:"fallbacks"`
	Errors        int                                         `json:"errors"`
	Distribution  []LabelShare                                `json:"distribution"`
	Engagement    []LabelEngagement                           `json:"engagement_by_label"`
	WordFrequency map[domain.Label][]domain.WordFrequencyEntry `json:"word_frequency"`
	Topics        map[domain.Label][]domain.Topic             `json:"topics,omitempty"`
}

// Percent returns the share of label, or zero when it is absent.
func (s LabelSection) Percent(label domain.Label) float64 {
	for _, d := range s.Distribution {
		if d.Label == label {
			return d.Percentage
		}
	}

	return 0
}

// Dominant returns the label with the largest share. Ties keep label set order.
func (s LabelSection) Dominant() (LabelShare, bool) {
	if s.Total == 0 || len(s.Distribution) == 0 {
		return LabelShare{}, false
	}

	best := s.Distribution[0]
	for _, d := range s.Distribution[1:] {
		if d.Percentage > best.Percentage {
			best = d
		}
	}

	return best, true
}

func (a *Aggregator) labelSection(
	labels domain.LabelSet,
	results []domain.ClassificationResult,
	replies []domain.Reply,
	tokens [][]string,
	j *join,
) LabelSection {
	sec := LabelSection{
		Total:         len(results),
		Distribution:  make([]LabelShare, len(labels)),
		Engagement:    make([]LabelEngagement, len(labels)),
		WordFrequency: make(map[domain.Label][]domain.WordFrequencyEntry, len(labels)),
	}

	pos := make(map[domain.Label]int, len(labels))
	for i, l := range labels {
		pos[l] = i
		sec.Distribution[i].Label = l
		sec.Engagement[i].Label = l
	}

	counters := make(map[domain.Label]*wordCounter, len(labels))

	for i, res := range results {
		switch {
		case res.Err != "":
			sec.Errors++
		case res.Fallback:
			sec.Fallbacks++
		}

		idx, ok := pos[res.Label]
		if !ok {
			continue
		}

		sec.Distribution[idx].Count++

		if i < len(replies) {
			sec.Engagement[idx].Engagement += j.replyEngagement(replies[i])
		}

		if i < len(tokens) {
			wc := counters[res.Label]
			if wc == nil {
				wc = newWordCounter()
				counters[res.Label] = wc
			}

			wc.add(tokens[i])
		}
	}

	for i := range sec.Distribution {
		sec.Distribution[i].Percentage = percentage(sec.Distribution[i].Count, sec.Total)
	}

	for _, l := range labels {
		if wc := counters[l]; wc != nil {
			sec.WordFrequency[l] = wc.top(a.cfg.WordFreqLimit)
		} else {
			sec.WordFrequency[l] = []domain.WordFrequencyEntry{}
		}
	}

	return sec
}

// percentage is part/total*100 rounded to two decimals.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return round(float64(part)/float64(total)*percentScale, 2)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))

	return math.Round(v*scale) / scale
}
