package peaks

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// Point is the activity observed in one hour of the day.
type Point struct {
	Hour  int
	Count int
}

// Params are the DBSCAN settings. MinPoints counts the point itself.
type Params struct {
	Eps       float64
	MinPoints int
}

// Cluster assigns a cluster id to every hour in points, or domain.NoiseClusterID.
// Points are visited in ascending hour order whatever order they arrive in, so
// the labelling depends only on which hours carry which counts.
func Cluster(points []Point, p Params) map[int]int {
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Hour < sorted[j].Hour })

	features := standardize(sorted)
	labels := dbscan(features, p)

	out := make(map[int]int, len(sorted))
	for i, pt := range sorted {
		out[pt.Hour] = labels[i]
	}

	return out
}

// standardize scales the [hour, count] columns to zero mean and unit population variance.
// A constant column becomes zero.
func standardize(points []Point) *mat.Dense {
	n := len(points)
	if n == 0 {
		return nil
	}

	hours := make([]float64, n)
	counts := make([]float64, n)

	for i, pt := range points {
		hours[i] = float64(pt.Hour)
		counts[i] = float64(pt.Count)
	}

	x := mat.NewDense(n, featureCount, nil)
	x.SetCol(0, scaleColumn(hours))
	x.SetCol(1, scaleColumn(counts))

	return x
}

func scaleColumn(col []float64) []float64 {
	mean, std := stat.PopMeanStdDev(col, nil)

	out := make([]float64, len(col))
	if std == 0 || math.IsNaN(std) {
		return out
	}

	for i, v := range col {
		out[i] = (v - mean) / std
	}

	return out
}

const (
	unvisited = -2
)

func dbscan(x *mat.Dense, p Params) []int {
	if x == nil {
		return nil
	}

	n, _ := x.Dims()

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	cluster := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		neighbors := regionQuery(x, i, p.Eps)
		if len(neighbors) < p.MinPoints {
			labels[i] = domain.NoiseClusterID
			continue
		}

		labels[i] = cluster
		expand(x, labels, neighbors, cluster, p)
		cluster++
	}

	return labels
}

// expand grows a cluster breadth-first from the neighbours of a core point.
func expand(x *mat.Dense, labels, queue []int, cluster int, p Params) {
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]

		if labels[j] == domain.NoiseClusterID {
			labels[j] = cluster
		}

		if labels[j] != unvisited {
			continue
		}

		labels[j] = cluster

		if next := regionQuery(x, j, p.Eps); len(next) >= p.MinPoints {
			queue = append(queue, next...)
		}
	}
}

func regionQuery(x *mat.Dense, i int, eps float64) []int {
	n, _ := x.Dims()
	row := x.RawRowView(i)

	var out []int

	for j := 0; j < n; j++ {
		other := x.RawRowView(j)

		if math.Hypot(row[0]-other[0], row[1]-other[1]) <= eps {
			out = append(out, j)
		}
	}

	return out
}
