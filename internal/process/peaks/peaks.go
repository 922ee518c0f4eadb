// Package peaks finds the hours of the day with clustered reply activity.
package peaks

import (
	"sort"
	"time"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

const (
	hoursPerDay  = 24
	featureCount = 2

	// DefaultEps and DefaultMinPoints are the settings of the original dashboard.
	DefaultEps       = 0.5
	DefaultMinPoints = 2

	reasonNoClearPeak = "no clear peak"
)

// Result is the outcome of peak detection.
type Result struct {
	OK            bool                     `json:"ok"`
	Reason        string                   `json:"reason,omitempty"`
	Peaks         []domain.ActivityCluster `json:"peak_ranges"`
	Labels        [hoursPerDay]int         `json:"hour_labels"`
	Projection    Projection               `json:"projection"`
	HoursAnalyzed int                      `json:"total_hours_analyzed"`
	TotalActivity int                      `json:"total_activity"`
	NumClusters   int                      `json:"num_clusters"`
	NumOutliers   int                      `json:"num_outliers"`
}

// Find clusters the non-zero hours of a 24-bucket histogram. Hours without
// activity are always noise.
func Find(hist [hoursPerDay]int, p Params) Result {
	res := Result{Peaks: []domain.ActivityCluster{}}

	for h := range res.Labels {
		res.Labels[h] = domain.NoiseClusterID
	}

	points := make([]Point, 0, hoursPerDay)

	for h, c := range hist {
		res.TotalActivity += c

		if c > 0 {
			points = append(points, Point{Hour: h, Count: c})
		}
	}

	res.HoursAnalyzed = len(points)

	if len(points) >= p.MinPoints && len(points) > 0 {
		for hour, label := range Cluster(points, p) {
			res.Labels[hour] = label
		}
	}

	res.Peaks = ranges(res.Labels, hist)
	res.Projection = project(points, res.Labels)

	clusters := make(map[int]struct{})

	for _, pt := range points {
		if l := res.Labels[pt.Hour]; l == domain.NoiseClusterID {
			res.NumOutliers++
		} else {
			clusters[l] = struct{}{}
		}
	}

	res.NumClusters = len(clusters)
	res.OK = len(res.Peaks) > 0

	if !res.OK {
		res.Reason = reasonNoClearPeak
	}

	return res
}

// ranges merges contiguous hours of the same cluster, joining runs across midnight,
// and ranks them by mean activity.
func ranges(labels [hoursPerDay]int, hist [hoursPerDay]int) []domain.ActivityCluster {
	var runs [][]int

	for h := 0; h < hoursPerDay; h++ {
		if labels[h] == domain.NoiseClusterID {
			continue
		}

		last := len(runs) - 1
		if last >= 0 && runs[last][len(runs[last])-1] == h-1 && labels[h-1] == labels[h] {
			runs[last] = append(runs[last], h)
			continue
		}

		runs = append(runs, []int{h})
	}

	if len(runs) > 1 {
		first, last := runs[0], runs[len(runs)-1]
		if first[0] == 0 && last[len(last)-1] == hoursPerDay-1 && labels[0] == labels[hoursPerDay-1] {
			runs[len(runs)-1] = append(last, first...)
			runs = runs[1:]
		}
	}

	out := make([]domain.ActivityCluster, 0, len(runs))

	for _, run := range runs {
		var sum int
		for _, h := range run {
			sum += hist[h]
		}

		start, end := run[0], run[len(run)-1]

		out = append(out, domain.ActivityCluster{
			ClusterID:    labels[start],
			StartHour:    start,
			EndHour:      end,
			Hours:        run,
			MeanActivity: float64(sum) / float64(len(run)),
			Label:        domain.HourRangeLabel(start, end),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MeanActivity != out[j].MeanActivity {
			return out[i].MeanActivity > out[j].MeanActivity
		}

		return out[i].StartHour < out[j].StartHour
	})

	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}

// HistogramFromTimes buckets timestamps by hour of day in loc.
func HistogramFromTimes(times []time.Time, loc *time.Location) [hoursPerDay]int {
	var hist [hoursPerDay]int

	if loc == nil {
		loc = time.UTC
	}

	for _, ts := range times {
		if ts.IsZero() {
			continue
		}

		hist[ts.In(loc).Hour()]++
	}

	return hist
}
