package domain

import "fmt"

// NoiseClusterID marks a point that belongs to no activity cluster.
const NoiseClusterID = -1

// NoTopic marks a document that has no tokens to assign.
const NoTopic = -1

// ClassificationResult is the label assigned to one text item.
type ClassificationResult struct {
	ItemID   string `json:"item_id"`
	Label    Label  `json:"label"`
	Fallback bool   `json:"fallback,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Topic is a latent theme discovered across a corpus.
type Topic struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Keywords []string  `json:"keywords"`
	Weights  []float64 `json:"weights"`
}

// Top returns up to n leading keywords.
func (t Topic) Top(n int) []string {
	if n >= len(t.Keywords) {
		return t.Keywords
	}

	return t.Keywords[:n]
}

// TopicAssignment is the topic mixture of one document.
type TopicAssignment struct {
	DocID        string    `json:"doc_id"`
	Topic        int       `json:"topic"`
	Strength     float64   `json:"strength"`
	Distribution []float64 `json:"distribution,omitempty"`
}

// ActivityCluster is a contiguous hour range of elevated reply activity.
type ActivityCluster struct {
	ClusterID    int     `json:"cluster_id"`
	Rank         int     `json:"rank"`
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	Hours        []int   `json:"hours"`
	MeanActivity float64 `json:"mean_activity"`
	Label        string  `json:"label"`
}

// HourRangeLabel formats an inclusive hour range as "HH:00 - HH:00".
func HourRangeLabel(start, end int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", start, end)
}

// WordFrequencyEntry is one row of a word-frequency table.
type WordFrequencyEntry struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}
